package session

import (
	"errors"
	"sync"

	"ai-content-planner/internal/planner"
)

// ErrDayOutOfRange is returned by SelectDay for an index outside the schedule.
var ErrDayOutOfRange = errors.New("day index out of range")

// View holds the plan currently shown to a user and the selected day.
type View struct {
	mu       sync.RWMutex
	plan     *planner.ContentPlan
	selected int
}

func (v *View) Plan() *planner.ContentPlan {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.plan
}

func (v *View) SelectedIndex() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected
}

// SelectedDay returns the selected entry, or false when there is no plan or
// the schedule is empty.
func (v *View) SelectedDay() (planner.ContentDay, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.plan == nil || v.selected >= len(v.plan.Schedule) {
		return planner.ContentDay{}, false
	}
	return v.plan.Schedule[v.selected], true
}

// Reset discards the plan and moves the cursor back to the first day.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plan = nil
	v.selected = 0
}

// SetPlan replaces the current plan wholesale.
func (v *View) SetPlan(p *planner.ContentPlan) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plan = p
	v.selected = 0
}

func (v *View) SelectDay(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.plan == nil || i < 0 || i >= len(v.plan.Schedule) {
		return ErrDayOutOfRange
	}
	v.selected = i
	return nil
}
