package export

import (
	"fmt"
	"strings"
	"testing"

	"ai-content-planner/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWithDays(n int) *planner.ContentPlan {
	p := &planner.ContentPlan{WeekGoal: "Grow brand awareness"}
	for i := 0; i < n; i++ {
		p.Schedule = append(p.Schedule, planner.ContentDay{
			Day:            fmt.Sprintf("Day %d", i+1),
			Theme:          "Theme",
			ContentIdea:    "Idea",
			CaptionEnglish: "Caption",
		})
	}
	return p
}

func TestLayoutSingleWeek(t *testing.T) {
	doc := Layout(planWithDays(7))
	require.Len(t, doc.Pages, 1)

	lines := doc.Pages[0].Lines
	require.Len(t, lines, 1+7*3)
	assert.Equal(t, Line{X: 10, Y: 20, Size: 20, Text: "Content Plan: Grow brand awareness"}, lines[0])
	assert.Equal(t, Line{X: 10, Y: 35, Size: 14, Text: "Day 1: Theme"}, lines[1])
	assert.Equal(t, Line{X: 10, Y: 42, Size: 10, Text: "Idea: Idea"}, lines[2])
	assert.Equal(t, Line{X: 10, Y: 49, Size: 10, Text: "Caption (EN): Caption"}, lines[3])
	assert.Equal(t, 64, lines[4].Y)
}

func TestLayoutPageBreak(t *testing.T) {
	// Days start at 35, 64, ... 267; the tenth would start at 296.
	doc := Layout(planWithDays(10))
	require.Len(t, doc.Pages, 2)
	assert.Len(t, doc.Pages[0].Lines, 1+9*3)

	second := doc.Pages[1].Lines
	require.Len(t, second, 3)
	assert.Equal(t, "Day 10: Theme", second[0].Text)
	assert.Equal(t, 20, second[0].Y)
	assert.Equal(t, 27, second[1].Y)
}

func TestLayoutEmptySchedule(t *testing.T) {
	doc := Layout(&planner.ContentPlan{WeekGoal: "x"})
	require.Len(t, doc.Pages, 1)
	assert.Len(t, doc.Pages[0].Lines, 1)
}

func TestCaptionPreview(t *testing.T) {
	exact := strings.Repeat("a", 80)
	assert.Equal(t, exact, CaptionPreview(exact))
	assert.Equal(t, exact+"...", CaptionPreview(exact+"b"))
	assert.Equal(t, "short", CaptionPreview("short"))

	arabic := strings.Repeat("م", 81)
	assert.Equal(t, strings.Repeat("م", 80)+"...", CaptionPreview(arabic))

	// Each emoji below is a surrogate pair, two units long.
	emoji := strings.Repeat("🔥", 40)
	assert.Equal(t, emoji, CaptionPreview(emoji))
	assert.Equal(t, emoji+"...", CaptionPreview(emoji+"!"))
	assert.Equal(t, "a"+strings.Repeat("🔥", 39)+"...", CaptionPreview("a"+emoji))
	assert.Equal(t, strings.Repeat("a", 78)+"☕"+"...", CaptionPreview(strings.Repeat("a", 78)+"☕🔥"))
}

func TestRenderText(t *testing.T) {
	out := RenderText(Layout(planWithDays(10)))
	assert.True(t, strings.HasPrefix(out, "--- Page 1 ---\nContent Plan: Grow brand awareness\n"))
	assert.Contains(t, out, "\n--- Page 2 ---\nDay 10: Theme\nIdea: Idea\nCaption (EN): Caption\n")
}

func TestHTMLEscapes(t *testing.T) {
	plan := &planner.ContentPlan{
		WeekGoal: "Tom & Jerry",
		Schedule: []planner.ContentDay{{
			Day: "Monday", Theme: "<b>Launch</b>", CaptionArabic: "مرحبا",
			Hashtags: []string{"#new", "#cafe"},
		}},
	}
	out := HTML(plan)
	assert.Contains(t, out, "Tom &amp; Jerry")
	assert.Contains(t, out, "&lt;b&gt;Launch&lt;/b&gt;")
	assert.Contains(t, out, `<p dir="rtl">مرحبا</p>`)
	assert.Contains(t, out, "#new #cafe")
}
