// Package export lays a content plan out as a paginated document.
package export

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"ai-content-planner/internal/planner"
)

// FileName is the suggested name of an exported plan, without extension.
const FileName = "social-media-plan"

const (
	topMargin      = 20
	pageBreakAfter = 270
	leftMargin     = 10

	titleAdvance   = 15
	headingAdvance = 7
	ideaAdvance    = 7
	dayAdvance     = 15

	titleSize   = 20
	headingSize = 14
	bodySize    = 10

	captionPreviewLen = 80
)

// Line is a single positioned line of text.
type Line struct {
	X, Y int
	Size int
	Text string
}

type Page struct {
	Lines []Line
}

type Document struct {
	Pages []Page
}

// Layout positions the plan title and a summary of every day. A new page is
// started before a day whenever the cursor has passed the bottom threshold.
func Layout(plan *planner.ContentPlan) Document {
	doc := Document{Pages: []Page{{}}}
	y := topMargin

	add := func(size int, text string) {
		page := &doc.Pages[len(doc.Pages)-1]
		page.Lines = append(page.Lines, Line{X: leftMargin, Y: y, Size: size, Text: text})
	}

	add(titleSize, "Content Plan: "+plan.WeekGoal)
	y += titleAdvance

	for _, day := range plan.Schedule {
		if y > pageBreakAfter {
			doc.Pages = append(doc.Pages, Page{})
			y = topMargin
		}
		add(headingSize, fmt.Sprintf("%s: %s", day.Day, day.Theme))
		y += headingAdvance

		add(bodySize, "Idea: "+day.ContentIdea)
		y += ideaAdvance

		add(bodySize, "Caption (EN): "+CaptionPreview(day.CaptionEnglish))
		y += dayAdvance
	}
	return doc
}

// CaptionPreview shortens a caption to its first 80 UTF-16 code units, the
// unit document renderers count in. A surrogate pair straddling the limit is
// dropped whole.
func CaptionPreview(caption string) string {
	units := 0
	for i, r := range caption {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > captionPreviewLen {
			return caption[:i] + "..."
		}
		units += n
	}
	return caption
}

// RenderText renders the document as plain text, one block per page.
func RenderText(doc Document) string {
	var sb strings.Builder
	for i, page := range doc.Pages {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n", i+1)
		for j, line := range page.Lines {
			if j > 0 && line.Size == headingSize {
				sb.WriteString("\n")
			}
			sb.WriteString(line.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// HTML renders the full plan, including both captions and hashtags, as an
// HTML fragment.
func HTML(plan *planner.ContentPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<p><strong>Weekly goal:</strong> %s</p>\n", html.EscapeString(plan.WeekGoal))
	for _, day := range plan.Schedule {
		fmt.Fprintf(&sb, "<h2>%s: %s</h2>\n", html.EscapeString(day.Day), html.EscapeString(day.Theme))
		sb.WriteString("<ul>\n")
		fmt.Fprintf(&sb, "<li><strong>Format:</strong> %s</li>\n", html.EscapeString(day.PostType))
		fmt.Fprintf(&sb, "<li><strong>Best time:</strong> %s</li>\n", html.EscapeString(day.BestTime))
		fmt.Fprintf(&sb, "<li><strong>Idea:</strong> %s</li>\n", html.EscapeString(day.ContentIdea))
		sb.WriteString("</ul>\n")
		fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(day.CaptionEnglish))
		fmt.Fprintf(&sb, "<p dir=\"rtl\">%s</p>\n", html.EscapeString(day.CaptionArabic))
		if len(day.Hashtags) > 0 {
			fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(strings.Join(day.Hashtags, " ")))
		}
	}
	return sb.String()
}
