package profile

import (
	"errors"
	"fmt"
)

// Step identifies the field a Form is currently asking for.
type Step int

const (
	StepName Step = iota
	StepType
	StepNiche
	StepLocation
	StepAudience
	StepWebsite
	StepDone
)

var (
	ErrEmptyAnswer    = errors.New("this field is required")
	ErrNotSkippable   = errors.New("this field cannot be skipped")
	ErrFormComplete   = errors.New("form already complete")
	ErrFormIncomplete = errors.New("form not complete")
)

var stepQuestions = map[Step]string{
	StepName:     "What is your business called?",
	StepType:     "What type of business is it?",
	StepNiche:    "What is your niche or specialty? (e.g. Specialty Coffee, Luxury Homes)",
	StepLocation: "Where are you located?",
	StepAudience: "Who is your target audience?",
	StepWebsite:  "Optionally send your website URL for extra context, or /skip.",
}

// Form collects a BusinessProfile one answer at a time.
type Form struct {
	step    Step
	profile BusinessProfile
	website string
}

// NewForm starts an empty form at the business name step.
func NewForm() *Form {
	return &Form{step: StepName}
}

func (f *Form) Step() Step { return f.step }

func (f *Form) Done() bool { return f.step == StepDone }

// Question returns the prompt for the current step, or "" when complete.
func (f *Form) Question() string {
	return stepQuestions[f.step]
}

// Answer records text for the current step and advances the form.
func (f *Form) Answer(text string) error {
	if f.Done() {
		return ErrFormComplete
	}
	if text == "" {
		if f.step == StepWebsite {
			return f.Skip()
		}
		return ErrEmptyAnswer
	}

	switch f.step {
	case StepName:
		f.profile.BusinessName = text
	case StepType:
		bt, err := ParseBusinessType(text)
		if err != nil {
			return err
		}
		f.profile.BusinessType = bt
	case StepNiche:
		f.profile.Niche = text
	case StepLocation:
		f.profile.Location = text
	case StepAudience:
		f.profile.TargetAudience = text
	case StepWebsite:
		f.website = text
	default:
		return fmt.Errorf("unexpected form step %d", f.step)
	}
	f.step++
	return nil
}

// Skip passes over the optional website step.
func (f *Form) Skip() error {
	if f.step != StepWebsite {
		return ErrNotSkippable
	}
	f.step = StepDone
	return nil
}

// Website returns the URL given on the optional step, if any.
func (f *Form) Website() string { return f.website }

// Profile returns the collected profile once every step is answered.
func (f *Form) Profile() (BusinessProfile, error) {
	if !f.Done() {
		return BusinessProfile{}, ErrFormIncomplete
	}
	return f.profile, f.profile.Validate()
}
