package planner

import (
	"context"
	"errors"

	"ai-content-planner/internal/profile"

	"golang.org/x/sync/semaphore"
)

// ErrGenerationInProgress is returned when a plan is already being generated
// for the same session.
var ErrGenerationInProgress = errors.New("a plan is already being generated")

// Exclusive allows at most one in-flight GeneratePlan call. A second caller
// is rejected instead of queued.
type Exclusive struct {
	next PlanGenerator
	sem  *semaphore.Weighted
}

func NewExclusive(next PlanGenerator) *Exclusive {
	return &Exclusive{next: next, sem: semaphore.NewWeighted(1)}
}

func (e *Exclusive) GeneratePlan(ctx context.Context, p profile.BusinessProfile) (*ContentPlan, error) {
	if !e.sem.TryAcquire(1) {
		return nil, ErrGenerationInProgress
	}
	defer e.sem.Release(1)
	return e.next.GeneratePlan(ctx, p)
}
