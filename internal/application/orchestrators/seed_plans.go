package orchestrators

import (
	"context"
	"log/slog"

	"adjja/internal/domain/config"
	"adjja/internal/domain/plan"

	"github.com/google/uuid"
)

// PlanStoreForSeed defines the store interface needed by SeedPlans.
type PlanStoreForSeed interface {
	Save(ctx context.Context, p plan.Plan) error
	Count(ctx context.Context) (int, error)
}

// SeedPlansDeps holds dependencies for SeedPlans.
type SeedPlansDeps struct {
	PlanStore PlanStoreForSeed
}

// ExecuteSeedPlans creates the default subscription plans if none exist.
// PRE: Database is initialized
// POST: Default plans created if count == 0; idempotent
func ExecuteSeedPlans(ctx context.Context, deps SeedPlansDeps, cfg config.AcademyConfiguration) error {
	count, err := deps.PlanStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Plans already exist, skip seeding
	}

	defaults := []plan.Plan{
		{Name: "Unlimited", PriceCents: 18000, Interval: plan.IntervalMonthly},
		{Name: "2x / Week", PriceCents: 12000, Interval: plan.IntervalMonthly},
		{Name: "Kids", PriceCents: 9000, Interval: plan.IntervalMonthly},
		{Name: "Annual Unlimited", PriceCents: 180000, Interval: plan.IntervalYearly},
	}

	for _, p := range defaults {
		p.ID = uuid.New().String()
		p.Currency = cfg.DefaultCurrency
		p.Active = true
		if err := p.Validate(); err != nil {
			return err
		}
		if err := deps.PlanStore.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "plans_seeded", "count", len(defaults), "currency", cfg.DefaultCurrency)
	return nil
}
