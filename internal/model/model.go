package model

import "time"

type Role string

const (
	RoleResearcher    Role = "Researcher"
	RoleLeadScientist Role = "LeadScientist"
)

type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "Planning"
	StatusActive    ProjectStatus = "Active"
	StatusCompleted ProjectStatus = "Completed"
	StatusOnHold    ProjectStatus = "OnHold"
)

func AllProjectStatuses() []ProjectStatus {
	return []ProjectStatus{StatusPlanning, StatusActive, StatusCompleted, StatusOnHold}
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

type LogType string

const (
	LogBehavioral        LogType = "Behavioral"
	LogEnvironmental     LogType = "Environmental"
	LogPhysicsExperiment LogType = "PhysicsExperiment"
)

func AllLogTypes() []LogType {
	return []LogType{LogBehavioral, LogEnvironmental, LogPhysicsExperiment}
}

func (t LogType) Valid() bool {
	switch t {
	case LogBehavioral, LogEnvironmental, LogPhysicsExperiment:
		return true
	}
	return false
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Project struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Status          ProjectStatus `json:"status"`
	LeadScientistID string        `json:"leadScientistId,omitempty"`
	LeadScientist   *User         `json:"leadScientist,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Photo is the server-side representation of an uploaded subject photo.
// The backend derives the thumbnail; the client never generates one.
type Photo struct {
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type ObservationLog struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Details         string    `json:"details,omitempty"`
	LogType         LogType   `json:"logType"`
	GravityReading  float64   `json:"gravityReading"`
	ObservationDate time.Time `json:"observationDate"`
	ProjectID       string    `json:"projectId,omitempty"`
	Project         *Project  `json:"project,omitempty"`
	ObserverID      string    `json:"observerId,omitempty"`
	Observer        *User     `json:"observer,omitempty"`
	SubjectPhoto    *Photo    `json:"subjectPhoto,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NotApplicable is rendered wherever a relationship is absent or cannot be
// resolved. Missing relations are a normal state, not an error.
const NotApplicable = "N/A"

func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return NotApplicable
	}
	return u.Name
}

func (p *Project) DisplayName() string {
	if p == nil || p.Name == "" {
		return NotApplicable
	}
	return p.Name
}
