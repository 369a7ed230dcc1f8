package tui

import (
	"math"
	"testing"
	"time"

	"lunarlog/internal/api"
	"lunarlog/internal/model"
)

func TestParseReading_NaNMarksUnparsableInput(t *testing.T) {
	if got := parseReading("1.62"); got != 1.62 {
		t.Fatalf("expected 1.62, got %v", got)
	}
	if got := parseReading("  9.8 "); got != 9.8 {
		t.Fatalf("expected whitespace-tolerant parse, got %v", got)
	}
	if got := parseReading("moon rocks"); !math.IsNaN(got) {
		t.Fatalf("expected NaN for junk input, got %v", got)
	}
	if got := parseReading(""); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty input, got %v", got)
	}
	// The sentinel never leaks into display output.
	if got := formatReading(math.NaN()); got != "" {
		t.Fatalf("expected empty rendering for NaN, got %q", got)
	}
}

func TestLogFormInput_AttachesImplicitFields(t *testing.T) {
	f := newLogForm()
	f.title.SetValue("Low-gravity grooming")
	f.gravity.SetValue("1.62")
	f.syncReading()
	f.project.candidates = []api.Candidate{{ID: "p-1", Name: "Apex"}}
	f.project.selectedID = "p-1"

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	in := f.input("user-42", now)

	if in.ObserverID != "user-42" {
		t.Fatalf("observer must be the session user, got %q", in.ObserverID)
	}
	if !in.ObservationDate.Equal(now) {
		t.Fatalf("observation date must be submit time, got %v", in.ObservationDate)
	}
	if in.GravityReading != 1.62 {
		t.Fatalf("expected gravity 1.62, got %v", in.GravityReading)
	}
	if in.ProjectID != "p-1" {
		t.Fatalf("expected selected project id, got %q", in.ProjectID)
	}
}

func TestLogFormInput_UnparsedGravitySubmitsZero(t *testing.T) {
	f := newLogForm()
	f.title.SetValue("t")
	f.gravity.SetValue("??")
	f.syncReading()
	if !math.IsNaN(f.reading) {
		t.Fatalf("expected NaN reading")
	}
	in := f.input("u", time.Now())
	if in.GravityReading != 0 {
		t.Fatalf("NaN must not reach the wire, got %v", in.GravityReading)
	}
}

func TestLogFormReset_KeepsCandidates(t *testing.T) {
	f := newLogForm()
	f.title.SetValue("draft title")
	f.gravity.SetValue("3.7")
	f.syncReading()
	f.project.candidates = []api.Candidate{{ID: "p-1", Name: "Apex"}}
	f.project.selectedID = "p-1"
	f.photo.applyPayload(photoPayloadMsg{path: "/tmp/a.png", contentType: "image/png", data: []byte("a")})

	f.reset()

	if f.title.Value() != "" {
		t.Fatalf("expected cleared title, got %q", f.title.Value())
	}
	if f.reading != defaultGravity {
		t.Fatalf("expected gravity back to default, got %v", f.reading)
	}
	if f.project.selectedID != "" {
		t.Fatalf("expected cleared project selection")
	}
	if f.photo.upload() != nil {
		t.Fatalf("expected cleared photo")
	}
	// Candidates survive the reset so the picker is usable immediately.
	if len(f.project.candidates) != 1 {
		t.Fatalf("expected candidates kept across reset")
	}
}

func TestProjectFormStatusCycle_WrapsEnum(t *testing.T) {
	f := newProjectForm()
	if f.status() != model.StatusPlanning {
		t.Fatalf("expected Planning default, got %q", f.status())
	}
	f.cycleStatus(-1)
	if f.status() != model.StatusOnHold {
		t.Fatalf("expected wrap to OnHold, got %q", f.status())
	}
	f.cycleStatus(1)
	if f.status() != model.StatusPlanning {
		t.Fatalf("expected wrap back to Planning, got %q", f.status())
	}
}

func TestProjectFormInput_LeadIsSessionUser(t *testing.T) {
	f := newProjectForm()
	f.name.SetValue("  Crater Survey ")
	f.statusIdx = 1 // Active
	in := f.input("lead-7")
	if in.Name != "Crater Survey" {
		t.Fatalf("expected trimmed name, got %q", in.Name)
	}
	if in.Status != model.StatusActive {
		t.Fatalf("expected Active, got %q", in.Status)
	}
	if in.LeadScientistID != "lead-7" {
		t.Fatalf("expected lead to be the session user, got %q", in.LeadScientistID)
	}
}
