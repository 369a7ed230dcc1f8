package tui

import (
	"context"
	"time"

	"lunarlog/internal/api"
	"lunarlog/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// picker resolves a relationship field: it holds a bounded candidate list for
// one entity type plus the currently selected id. Candidates are re-fetched on
// every (entity, selection) change rather than cached, so the list is always
// fresh at the cost of redundant round trips.
type picker struct {
	entity     model.EntityType
	candidates []api.Candidate
	selectedID string
	loading    bool
}

type candidatesMsg struct {
	entity     model.EntityType
	candidates []api.Candidate
	err        error
}

func resolveCmd(client *api.Client, entity model.EntityType) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		cands, err := client.Candidates(ctx, entity)
		return candidatesMsg{entity: entity, candidates: cands, err: err}
	}
}

// resolveSelected finds the candidate matching id. A miss (entity beyond the
// fetch cap, or deleted) yields none; the caller renders a neutral "no
// selection" state instead of failing.
func resolveSelected(cands []api.Candidate, id string) (api.Candidate, bool) {
	if id == "" {
		return api.Candidate{}, false
	}
	for _, c := range cands {
		if c.ID == id {
			return c, true
		}
	}
	return api.Candidate{}, false
}

func (p *picker) apply(msg candidatesMsg) {
	if msg.entity != p.entity {
		return
	}
	p.loading = false
	if msg.err != nil {
		// Keep whatever candidates we had; resolution misses degrade to
		// "no selection", never to an error state.
		return
	}
	p.candidates = msg.candidates
}

// selected resolves the current id against the candidate list.
func (p *picker) selected() (api.Candidate, bool) {
	return resolveSelected(p.candidates, p.selectedID)
}

// selectPrev/selectNext walk the candidate list; position -1 is the explicit
// "no selection" entry.
func (p *picker) index() int {
	for i, c := range p.candidates {
		if c.ID == p.selectedID {
			return i
		}
	}
	return -1
}

func (p *picker) selectPrev() {
	idx := p.index() - 1
	if idx < -1 {
		idx = -1
	}
	p.applyIndex(idx)
}

func (p *picker) selectNext() {
	idx := p.index() + 1
	if idx >= len(p.candidates) {
		idx = len(p.candidates) - 1
	}
	p.applyIndex(idx)
}

func (p *picker) applyIndex(idx int) {
	if idx < 0 || idx >= len(p.candidates) {
		p.selectedID = ""
		return
	}
	p.selectedID = p.candidates[idx].ID
}

// label is the display text for the current selection.
func (p *picker) label() string {
	if c, ok := p.selected(); ok {
		if c.Name != "" {
			return c.Name
		}
		return c.ID
	}
	return "(none)"
}
