package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validExperiment() *Experiment {
	return &Experiment{
		Name:         "New Checkout Flow",
		ExpParameter: "checkout_v2",
		UserGroup:    "premium_users",
		LiveDate:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateExperiment_Valid(t *testing.T) {
	if err := ValidateExperiment(validExperiment()); err != nil {
		t.Fatalf("ValidateExperiment() = %v, want nil", err)
	}
}

func TestValidateExperiment_MissingFields(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Experiment)
		field  string
	}{
		{"missing name", func(e *Experiment) { e.Name = "" }, "name"},
		{"whitespace name", func(e *Experiment) { e.Name = "   " }, "name"},
		{"missing expParameter", func(e *Experiment) { e.ExpParameter = "" }, "expParameter"},
		{"missing userGroup", func(e *Experiment) { e.UserGroup = "" }, "userGroup"},
		{"missing liveDate", func(e *Experiment) { e.LiveDate = time.Time{} }, "liveDate"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := validExperiment()
			tc.mutate(e)
			err := ValidateExperiment(e)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(ve.Error(), tc.field) {
				t.Errorf("error %q does not mention field %q", ve.Error(), tc.field)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	v := &Version{
		ExperimentID: "exp-abc",
		ChangeDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Changes:      "Increased rollout to 50%",
	}
	if err := ValidateVersion(v); err != nil {
		t.Fatalf("ValidateVersion() = %v, want nil", err)
	}

	v.Changes = ""
	if err := ValidateVersion(v); err == nil {
		t.Fatal("expected error for missing changes")
	}
	v.Changes = "x"
	v.ChangeDate = time.Time{}
	if err := ValidateVersion(v); err == nil {
		t.Fatal("expected error for missing changeDate")
	}
}
