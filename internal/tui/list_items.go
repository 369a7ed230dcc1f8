package tui

import (
	"fmt"

	"lunarlog/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type projectItem struct {
	project model.Project
}

func (i projectItem) FilterValue() string { return i.project.Name }
func (i projectItem) Title() string {
	return fmt.Sprintf("%s [%s]", i.project.Name, i.project.Status)
}
func (i projectItem) Description() string { return i.project.LeadScientist.DisplayName() }

type logItem struct {
	log model.ObservationLog
}

func (i logItem) FilterValue() string { return i.log.Title }
func (i logItem) Title() string {
	marker := " "
	if i.log.SubjectPhoto != nil {
		marker = "◉"
	}
	return fmt.Sprintf("%s %s · %s", marker, i.log.Title, i.log.LogType)
}
func (i logItem) Description() string { return i.log.Project.DisplayName() }

func newList(title, statusName string, items []list.Item) list.Model {
	l := list.New(items, newCompactItemDelegate(), 0, 0)
	l.Title = title
	l.SetStatusBarItemName(statusName, statusName+"s")
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetShowFilter(false)
	return l
}
