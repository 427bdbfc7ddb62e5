package planner

import (
	"bytes"
	_ "embed"
	"text/template"

	"ai-content-planner/internal/llm"
	"ai-content-planner/internal/profile"
)

//go:embed prompt.tmpl
var planPrompt string

var planTemplate = template.Must(template.New("plan").Parse(planPrompt))

const planSchemaName = "content_plan"

func buildPrompt(p profile.BusinessProfile) (string, error) {
	var buf bytes.Buffer
	if err := planTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ContentPlanSchema is the output shape every provider is asked to return.
func ContentPlanSchema() *llm.Schema {
	day := llm.Object("",
		llm.Field{Name: "day", Schema: llm.String("Day of the week (e.g., Monday)")},
		llm.Field{Name: "theme", Schema: llm.String("Short theme title for the day")},
		llm.Field{Name: "postType", Schema: llm.String("Format: Reel, Photo, Carousel, Story")},
		llm.Field{Name: "contentIdea", Schema: llm.String("Detailed description of what to create")},
		llm.Field{Name: "captionEnglish", Schema: llm.String("Engaging caption in English with emojis")},
		llm.Field{Name: "captionArabic", Schema: llm.String("Engaging caption in Arabic (Modern Standard or generic dialect) with emojis")},
		llm.Field{Name: "hashtags", Schema: llm.ArrayOf(llm.String(""), "List of 5-10 relevant hashtags")},
		llm.Field{Name: "bestTime", Schema: llm.String("Suggested posting time")},
	)

	return llm.Object("",
		llm.Field{Name: "weekGoal", Schema: llm.String("The primary marketing goal for this week's content plan.")},
		llm.Field{Name: "schedule", Schema: llm.ArrayOf(day, "")},
	)
}
