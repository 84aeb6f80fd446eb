package plan_test

import (
	"testing"

	"adjja/internal/domain/plan"
)

// TestPlanValidation tests validation of Plan.
func TestPlanValidation(t *testing.T) {
	tests := []struct {
		name    string
		plan    plan.Plan
		wantErr bool
	}{
		{
			name:    "valid monthly plan",
			plan:    plan.Plan{ID: "p1", Name: "Unlimited", PriceCents: 15000, Currency: "NZD", Interval: plan.IntervalMonthly, Active: true},
			wantErr: false,
		},
		{
			name:    "free plan is valid",
			plan:    plan.Plan{ID: "p2", Name: "Staff", PriceCents: 0, Currency: "NZD", Interval: plan.IntervalYearly, Active: true},
			wantErr: false,
		},
		{
			name:    "empty name",
			plan:    plan.Plan{ID: "p1", Name: "", PriceCents: 100, Currency: "NZD", Interval: plan.IntervalMonthly},
			wantErr: true,
		},
		{
			name:    "negative price",
			plan:    plan.Plan{ID: "p1", Name: "Unlimited", PriceCents: -1, Currency: "NZD", Interval: plan.IntervalMonthly},
			wantErr: true,
		},
		{
			name:    "bad currency",
			plan:    plan.Plan{ID: "p1", Name: "Unlimited", PriceCents: 100, Currency: "dollars", Interval: plan.IntervalMonthly},
			wantErr: true,
		},
		{
			name:    "bad interval",
			plan:    plan.Plan{ID: "p1", Name: "Unlimited", PriceCents: 100, Currency: "NZD", Interval: "weekly"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestRetire tests plan retirement.
func TestRetire(t *testing.T) {
	p := plan.Plan{ID: "p1", Name: "Unlimited", Currency: "NZD", Interval: plan.IntervalMonthly, Active: true}
	if err := p.Retire(); err != nil {
		t.Fatalf("Retire() error = %v", err)
	}
	if err := p.Retire(); err != plan.ErrAlreadyRetired {
		t.Errorf("second Retire() error = %v, want ErrAlreadyRetired", err)
	}
}
