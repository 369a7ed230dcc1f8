package model

import (
	"encoding/json"
	"testing"
)

func TestEnumValidity(t *testing.T) {
	for _, s := range AllProjectStatuses() {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if ProjectStatus("Cancelled").Valid() {
		t.Errorf("unknown status should be invalid")
	}
	for _, lt := range AllLogTypes() {
		if !lt.Valid() {
			t.Errorf("log type %q should be valid", lt)
		}
	}
	if LogType("Chemical").Valid() {
		t.Errorf("unknown log type should be invalid")
	}
}

func TestDisplayNameSentinel(t *testing.T) {
	var p *Project
	if got := p.DisplayName(); got != NotApplicable {
		t.Fatalf("nil project display = %q, want %q", got, NotApplicable)
	}
	var u *User
	if got := u.DisplayName(); got != NotApplicable {
		t.Fatalf("nil user display = %q, want %q", got, NotApplicable)
	}
	if got := (&Project{Name: "Regolith Survey"}).DisplayName(); got != "Regolith Survey" {
		t.Fatalf("display = %q", got)
	}
}

func TestEntityTypeWiring(t *testing.T) {
	cases := []struct {
		et    EntityType
		path  string
		field string
	}{
		{EntityUser, "User", "name"},
		{EntityProject, "Project", "name"},
		{EntityObservationLog, "ObservationLog", "title"},
	}
	for _, c := range cases {
		if c.et.String() != c.path {
			t.Errorf("%v path = %q, want %q", c.et, c.et.String(), c.path)
		}
		if c.et.DisplayField() != c.field {
			t.Errorf("%v display field = %q, want %q", c.et, c.et.DisplayField(), c.field)
		}
	}
}

func TestLogDecodesEmbeddedRelations(t *testing.T) {
	raw := `{
		"id": "log-1",
		"title": "Crater walk",
		"logType": "Behavioral",
		"gravityReading": 1.62,
		"observationDate": "2026-08-30T12:00:00Z",
		"project": {"id": "proj-1", "name": "Regolith Survey", "status": "Active"},
		"observer": {"id": "usr-1", "name": "Ada", "role": "Researcher"}
	}`
	var l ObservationLog
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Project.DisplayName() != "Regolith Survey" {
		t.Errorf("project display = %q", l.Project.DisplayName())
	}
	if l.Observer.DisplayName() != "Ada" {
		t.Errorf("observer display = %q", l.Observer.DisplayName())
	}
	if l.GravityReading != 1.62 {
		t.Errorf("gravity = %v", l.GravityReading)
	}
}
