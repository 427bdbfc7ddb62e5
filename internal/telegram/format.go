package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	welcomeText = "👋 Let's build a 7-day social media plan for your business. Send /new at any time to start over."
	helpText    = "Send /new to plan a week of content.\n" +
		"/plan shows your current plan, /export sends it as a document, /publish saves it as a blog draft."
	noPlanText = "You have no plan yet. Send /new to create one."

	dayButtonsPerRow = 4
)

func formatPlanOverview(plan *planner.ContentPlan) string {
	var sb strings.Builder
	sb.WriteString("🎯 <b>Weekly goal</b>\n")
	sb.WriteString(html.EscapeString(plan.WeekGoal))
	sb.WriteString("\n\n📅 <b>Schedule</b>\n")
	for _, d := range plan.Schedule {
		fmt.Fprintf(&sb, "• <b>%s</b>: %s (%s)\n",
			html.EscapeString(d.Day), html.EscapeString(d.Theme), html.EscapeString(d.PostType))
	}
	sb.WriteString("\nTap a day for captions and hashtags.")
	return sb.String()
}

func formatDay(d planner.ContentDay) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s: %s</b>\n", html.EscapeString(d.Day), html.EscapeString(d.Theme))
	fmt.Fprintf(&sb, "📸 Format: %s\n", html.EscapeString(d.PostType))
	fmt.Fprintf(&sb, "⏰ Best time: %s\n\n", html.EscapeString(d.BestTime))
	fmt.Fprintf(&sb, "💡 <b>Idea</b>\n%s\n\n", html.EscapeString(d.ContentIdea))
	fmt.Fprintf(&sb, "🇬🇧 <b>Caption (EN)</b>\n%s\n\n", html.EscapeString(d.CaptionEnglish))
	fmt.Fprintf(&sb, "🇸🇦 <b>Caption (AR)</b>\n%s", html.EscapeString(d.CaptionArabic))
	if len(d.Hashtags) > 0 {
		fmt.Fprintf(&sb, "\n\n%s", html.EscapeString(strings.Join(d.Hashtags, " ")))
	}
	return sb.String()
}

// dayKeyboard lists every day of the plan. selected < 0 means the overview
// is shown; otherwise copy buttons for that day are added.
func dayKeyboard(plan *planner.ContentPlan, selected int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, d := range plan.Schedule {
		label := shortDay(d.Day)
		if i == selected {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("day|%d", i)))
		if len(row) == dayButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if selected >= 0 {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📋 Copy EN", "copy|en"),
				tgbotapi.NewInlineKeyboardButtonData("📋 Copy AR", "copy|ar"),
			),
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Overview", "back")),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func businessTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	types := profile.BusinessTypes()
	for i := 0; i < len(types); i += 2 {
		row := tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(types[i]), fmt.Sprintf("type|%d", i)),
		)
		if i+1 < len(types) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(types[i+1]), fmt.Sprintf("type|%d", i+1)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func shortDay(day string) string {
	r := []rune(day)
	if len(r) <= 3 {
		return day
	}
	return string(r[:3])
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
