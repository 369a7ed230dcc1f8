package tui

type view int

const (
	viewBooting view = iota
	viewLogin
	viewDashboard
)

// focusArea is the dashboard pane holding keyboard focus. Forms keep focus
// even while collapsed (the toggle line itself is focusable).
type focusArea int

const (
	focusLogs focusArea = iota
	focusProjects
	focusLogForm
	focusProjectForm
)

type modalKind int

const (
	modalNone modalKind = iota
	modalPickPhoto
)
