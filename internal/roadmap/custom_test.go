package roadmap

import (
	"strings"
	"testing"
)

func TestNewCustom_Fixed(t *testing.T) {
	r := NewCustom("Photography", []string{"Composition", "Lighting"}, IDFixed)

	if r.ID != "custom" {
		t.Errorf("ID = %q, want custom", r.ID)
	}
	if r.Title != "Photography" {
		t.Errorf("Title = %q, want Photography", r.Title)
	}
	if r.Theme != ThemeGreen {
		t.Errorf("Theme = %q, want green", r.Theme)
	}

	wantIDs := []string{"custom-0", "custom-1"}
	wantTitles := []string{"Composition", "Lighting"}
	if len(r.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(r.Steps))
	}
	for i, s := range r.Steps {
		if s.ID != wantIDs[i] {
			t.Errorf("step %d id = %q, want %q", i, s.ID, wantIDs[i])
		}
		if s.Title != wantTitles[i] {
			t.Errorf("step %d title = %q, want %q", i, s.Title, wantTitles[i])
		}
		if s.HasLink() {
			t.Errorf("step %d should have no link", i)
		}
	}

	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewCustom_FixedIDsAlias(t *testing.T) {
	a := NewCustom("Photography", []string{"Composition"}, IDFixed)
	b := NewCustom("Cooking", []string{"Knife skills"}, IDFixed)
	if a.Steps[0].ID != b.Steps[0].ID {
		t.Errorf("fixed mode should reuse step ids, got %q and %q", a.Steps[0].ID, b.Steps[0].ID)
	}
}

func TestNewCustom_Unique(t *testing.T) {
	a := NewCustom("Photography", []string{"Composition", "Lighting"}, IDUnique)
	b := NewCustom("Photography", []string{"Composition", "Lighting"}, IDUnique)

	if a.ID == b.ID {
		t.Errorf("unique mode produced the same id twice: %q", a.ID)
	}
	if !strings.HasPrefix(a.ID, "custom-") {
		t.Errorf("ID = %q, want custom- prefix", a.ID)
	}
	if a.Steps[1].ID != a.ID+"-1" {
		t.Errorf("step id = %q, want %q", a.Steps[1].ID, a.ID+"-1")
	}
	if !IsCustomID(a.Steps[0].ID) {
		t.Error("unique step ids should stay in the custom namespace")
	}
}

func TestParseIDMode(t *testing.T) {
	tests := []struct {
		in      string
		want    IDMode
		wantErr bool
	}{
		{"", IDFixed, false},
		{"fixed", IDFixed, false},
		{" Unique ", IDUnique, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		got, err := ParseIDMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIDMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseIDMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	r := Roadmap{ID: "x", Title: "X"}
	if err := r.Validate(); err == nil {
		t.Error("roadmap without steps should be invalid")
	}

	r.Steps = []Step{{ID: "x-1", Title: "One"}, {ID: "x-2", Title: "Two"}}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if !r.HasStep("x-2") || r.HasStep("x-3") {
		t.Error("HasStep mismatch")
	}
	if got := r.StepIDs(); len(got) != 2 || got[0] != "x-1" {
		t.Errorf("StepIDs = %v", got)
	}
}
