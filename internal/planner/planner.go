package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-content-planner/internal/llm"
	"ai-content-planner/internal/profile"
	"ai-content-planner/internal/shared"

	"github.com/rs/zerolog"
)

const agentName = "ContentPlanner"

// PlanGenerator turns a business profile into a content plan.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, p profile.BusinessProfile) (*ContentPlan, error)
}

// MetaRecorder receives execution metadata for every provider call.
type MetaRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// DecodeError reports a provider response that does not match the plan schema.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse content plan: %v. Response: %s", e.Err, e.Raw)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Planner generates content plans with a single schema-constrained request.
type Planner struct {
	textGen     llm.StructuredGenerator
	recorder    MetaRecorder
	temperature float32
}

// NewPlanner creates a Planner. recorder may be nil.
func NewPlanner(textGen llm.StructuredGenerator, recorder MetaRecorder, temperature float32) *Planner {
	return &Planner{
		textGen:     textGen,
		recorder:    recorder,
		temperature: temperature,
	}
}

// GeneratePlan validates the profile, issues exactly one provider request and
// decodes the response. Provider errors are returned as they were received.
func (p *Planner) GeneratePlan(ctx context.Context, prof profile.BusinessProfile) (*ContentPlan, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(prof)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan prompt: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("provider", p.textGen.Provider()).
		Str("business", prof.BusinessName).
		Msg("requesting content plan")

	start := time.Now()
	resp, err := p.textGen.GenerateStructured(ctx, llm.StructuredRequest{
		Prompt:      prompt,
		SchemaName:  planSchemaName,
		Schema:      ContentPlanSchema(),
		Temperature: p.temperature,
	})
	p.record(ctx, resp.Usage, time.Since(start))
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(resp.Content) == "" {
		return nil, llm.ErrEmptyResponse
	}

	plan, err := decodePlan(resp.Content)
	if err != nil {
		return nil, &DecodeError{Raw: resp.Content, Err: err}
	}

	logger.Debug().Int("days", len(plan.Schedule)).Msg("content plan generated")
	return plan, nil
}

func (p *Planner) record(ctx context.Context, usage shared.TokenUsage, latency time.Duration) {
	if p.recorder == nil {
		return
	}
	meta := shared.AgentMeta{
		AgentName: agentName,
		Provider:  p.textGen.Provider(),
		Usage:     usage,
		Latency:   latency,
	}
	if err := p.recorder.RecordMeta(meta); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to record generation metrics")
	}
}

// errMissingField is wrapped by decodePlan for absent or null required keys.
var errMissingField = errors.New("missing required field")

type rawDay struct {
	Day            *string   `json:"day"`
	Theme          *string   `json:"theme"`
	PostType       *string   `json:"postType"`
	ContentIdea    *string   `json:"contentIdea"`
	CaptionEnglish *string   `json:"captionEnglish"`
	CaptionArabic  *string   `json:"captionArabic"`
	Hashtags       *[]string `json:"hashtags"`
	BestTime       *string   `json:"bestTime"`
}

type rawPlan struct {
	WeekGoal *string   `json:"weekGoal"`
	Schedule *[]rawDay `json:"schedule"`
}

// decodePlan parses the provider JSON and requires every schema field to be
// present. Lengths and string contents are taken as returned.
func decodePlan(content string) (*ContentPlan, error) {
	var raw rawPlan
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, err
	}
	if raw.WeekGoal == nil {
		return nil, fmt.Errorf("%w %q", errMissingField, "weekGoal")
	}
	if raw.Schedule == nil {
		return nil, fmt.Errorf("%w %q", errMissingField, "schedule")
	}

	plan := &ContentPlan{
		WeekGoal: *raw.WeekGoal,
		Schedule: make([]ContentDay, 0, len(*raw.Schedule)),
	}
	for i, d := range *raw.Schedule {
		day, err := d.toContentDay()
		if err != nil {
			return nil, fmt.Errorf("schedule[%d]: %w", i, err)
		}
		plan.Schedule = append(plan.Schedule, day)
	}
	return plan, nil
}

func (d rawDay) toContentDay() (ContentDay, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"day", d.Day},
		{"theme", d.Theme},
		{"postType", d.PostType},
		{"contentIdea", d.ContentIdea},
		{"captionEnglish", d.CaptionEnglish},
		{"captionArabic", d.CaptionArabic},
		{"bestTime", d.BestTime},
	}
	for _, f := range fields {
		if f.value == nil {
			return ContentDay{}, fmt.Errorf("%w %q", errMissingField, f.name)
		}
	}
	if d.Hashtags == nil {
		return ContentDay{}, fmt.Errorf("%w %q", errMissingField, "hashtags")
	}

	return ContentDay{
		Day:            *d.Day,
		Theme:          *d.Theme,
		PostType:       *d.PostType,
		ContentIdea:    *d.ContentIdea,
		CaptionEnglish: *d.CaptionEnglish,
		CaptionArabic:  *d.CaptionArabic,
		Hashtags:       *d.Hashtags,
		BestTime:       *d.BestTime,
	}, nil
}
