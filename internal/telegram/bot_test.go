package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-content-planner/internal/config"
	"ai-content-planner/internal/ghost"
	"ai-content-planner/internal/llm"
	"ai-content-planner/internal/metrics"
	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"
	"ai-content-planner/internal/sitebrief"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChatID = int64(1)
	testUserID = int64(42)
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() tgbotapi.Chattable {
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	switch c := f.last().(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	}
	t.Fatalf("unexpected chattable %T", f.last())
	return ""
}

type fakeGenerator struct {
	plan     *planner.ContentPlan
	err      error
	calls    int
	profiles []profile.BusinessProfile
}

func (g *fakeGenerator) GeneratePlan(ctx context.Context, p profile.BusinessProfile) (*planner.ContentPlan, error) {
	g.calls++
	g.profiles = append(g.profiles, p)
	return g.plan, g.err
}

type fakeFetcher struct{ urls []string }

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (sitebrief.Brief, error) {
	f.urls = append(f.urls, url)
	return sitebrief.Brief{Title: "The Daily Grind", Description: "Coffee bar"}, nil
}

type fakePublisher struct{ html string }

func (p *fakePublisher) CreatePost(ctx context.Context, title, html string, publish bool) (*ghost.Post, error) {
	p.html = html
	return &ghost.Post{ID: "p1", Title: title, Status: "draft"}, nil
}

type fakeUsage struct{}

func (fakeUsage) GetDailyUsage(days int) ([]metrics.DailyUsage, error) {
	return []metrics.DailyUsage{{Date: "2025-03-10", TotalExecution: 3}}, nil
}

func testPlan() *planner.ContentPlan {
	return &planner.ContentPlan{
		WeekGoal: "Grow brand awareness",
		Schedule: []planner.ContentDay{
			{Day: "Monday", Theme: "Launch", PostType: "Reel", CaptionEnglish: "Hello!", CaptionArabic: "مرحبا", Hashtags: []string{"#new"}, BestTime: "18:00"},
			{Day: "Tuesday", Theme: "Tips & Tricks", PostType: "Carousel", CaptionEnglish: "Tip <1>", CaptionArabic: "نصيحة", BestTime: "09:00"},
		},
	}
}

func newTestBot(gen planner.PlanGenerator, deps Deps) (*Bot, *fakeSender) {
	client := &fakeSender{}
	cfg := &config.Config{AdminTelegramID: testUserID, DatabasePath: "data/test.db"}
	return newBot(client, cfg, gen, deps, zerolog.Nop()), client
}

func message(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: testChatID},
		From: &tgbotapi.User{ID: testUserID},
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])}}
	}
	return tgbotapi.Update{Message: msg}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: testUserID},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 99,
			Chat:      &tgbotapi.Chat{ID: testChatID},
		},
	}}
}

func fillForm(t *testing.T, b *Bot, client *fakeSender) {
	t.Helper()
	ctx := context.Background()

	b.HandleUpdate(ctx, message("/new"))
	assert.Contains(t, client.lastText(t), "What is your business called?")

	b.HandleUpdate(ctx, message("The Daily Grind"))
	typeMsg, ok := client.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "What type of business is it?", typeMsg.Text)
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, typeMsg.ReplyMarkup)

	b.HandleUpdate(ctx, callback("type|0"))
	assert.Contains(t, client.lastText(t), "niche")

	b.HandleUpdate(ctx, message("Specialty Coffee"))
	b.HandleUpdate(ctx, message("Dubai Marina"))
	b.HandleUpdate(ctx, message("Young professionals"))
	assert.Contains(t, client.lastText(t), "/skip")
}

func TestFormFlowGeneratesPlan(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	b, client := newTestBot(gen, Deps{})
	fillForm(t, b, client)

	b.HandleUpdate(context.Background(), message("/skip"))

	require.Equal(t, 1, gen.calls)
	assert.Equal(t, profile.BusinessProfile{
		BusinessName:   "The Daily Grind",
		BusinessType:   profile.Cafe,
		Niche:          "Specialty Coffee",
		Location:       "Dubai Marina",
		TargetAudience: "Young professionals",
	}, gen.profiles[0])

	edit, ok := client.last().(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Grow brand awareness")
	assert.Contains(t, edit.Text, "Tips &amp; Tricks")
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, "day|1", *edit.ReplyMarkup.InlineKeyboard[0][1].CallbackData)

	sess := b.sessions.Get(testChatID)
	assert.Equal(t, testPlan(), sess.View.Plan())
}

func TestWebsiteBriefIsFetched(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	fetcher := &fakeFetcher{}
	b, client := newTestBot(gen, Deps{Fetcher: fetcher})
	fillForm(t, b, client)

	b.HandleUpdate(context.Background(), message("thedailygrind.ae"))

	assert.Equal(t, []string{"thedailygrind.ae"}, fetcher.urls)
	require.Equal(t, 1, gen.calls)
	assert.Equal(t, "Title: The Daily Grind\nDescription: Coffee bar", gen.profiles[0].WebsiteBrief)
}

func TestFailureKeepsPreviousPlan(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	b, client := newTestBot(gen, Deps{})
	fillForm(t, b, client)
	b.HandleUpdate(context.Background(), message("/skip"))
	sess := b.sessions.Get(testChatID)
	previous := sess.View.Plan()

	// A new form clears the view, so fill it through the session directly.
	gen.plan, gen.err = nil, llm.ErrMissingCredential
	sess.StartForm()
	sess.View.SetPlan(previous)
	require.NoError(t, sess.WithForm(func(f *profile.Form) error {
		for _, a := range []string{"Cut Above", "Barbershop", "Fades", "Riyadh", "Men 18-35"} {
			if err := f.Answer(a); err != nil {
				return err
			}
		}
		return f.Skip()
	}))
	b.submit(context.Background(), sess)

	edit, ok := client.last().(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, "❌ "+planner.FailureMessage, edit.Text)
	assert.Equal(t, "retry", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
	assert.Same(t, previous, sess.View.Plan())

	gen.plan, gen.err = testPlan(), nil
	b.HandleUpdate(context.Background(), callback("retry"))
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, "Cut Above", gen.profiles[2].BusinessName)
	assert.NotSame(t, previous, sess.View.Plan())
}

func TestDaySelectionAndCopy(t *testing.T) {
	b, client := newTestBot(&fakeGenerator{}, Deps{})
	sess := b.sessions.Get(testChatID)
	sess.View.SetPlan(testPlan())
	ctx := context.Background()

	b.HandleUpdate(ctx, callback("day|1"))
	edit, ok := client.last().(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 99, edit.MessageID)
	assert.Contains(t, edit.Text, "<b>Tuesday: Tips &amp; Tricks</b>")
	assert.Contains(t, edit.Text, "Tip &lt;1&gt;")
	assert.Equal(t, "• Tue", edit.ReplyMarkup.InlineKeyboard[0][1].Text)

	b.HandleUpdate(ctx, callback("copy|ar"))
	copied, ok := client.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "نصيحة", copied.Text)
	assert.Empty(t, copied.ParseMode)

	b.HandleUpdate(ctx, callback("copy|en"))
	assert.Equal(t, "Tip <1>", client.lastText(t))

	sent := len(client.sent)
	b.HandleUpdate(ctx, callback("day|7"))
	assert.Len(t, client.sent, sent)
	assert.Equal(t, 1, sess.View.SelectedIndex())
	answer, ok := client.requests[len(client.requests)-1].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "That day is not available", answer.Text)
}

func TestUnauthorizedUserIsIgnored(t *testing.T) {
	b, client := newTestBot(&fakeGenerator{}, Deps{})
	b.cfg.TelegramAllowedUserIDs = []int64{7}

	b.HandleUpdate(context.Background(), message("/new"))
	assert.Empty(t, client.sent)
}

func TestExportAndPublish(t *testing.T) {
	publisher := &fakePublisher{}
	b, client := newTestBot(&fakeGenerator{}, Deps{Publisher: publisher})
	ctx := context.Background()

	b.HandleUpdate(ctx, message("/export"))
	assert.Equal(t, noPlanText, client.lastText(t))

	b.sessions.Get(testChatID).View.SetPlan(testPlan())
	b.HandleUpdate(ctx, message("/export"))
	doc, ok := client.last().(tgbotapi.DocumentConfig)
	require.True(t, ok)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "social-media-plan.txt", file.Name)
	assert.Contains(t, string(file.Bytes), "Content Plan: Grow brand awareness")

	b.HandleUpdate(ctx, message("/publish"))
	assert.Equal(t, "✅ Draft saved: Content Plan: Grow brand awareness", client.lastText(t))
	assert.Contains(t, publisher.html, "مرحبا")
}

func TestMetricsAdminOnly(t *testing.T) {
	b, client := newTestBot(&fakeGenerator{}, Deps{Usage: fakeUsage{}})
	ctx := context.Background()

	b.HandleUpdate(ctx, message("/metrics"))
	assert.Contains(t, client.lastText(t), "2025-03-10: 3 plans")
	assert.Contains(t, client.lastText(t), "Active chats: 1")

	b.cfg.AdminTelegramID = 1000
	b.HandleUpdate(ctx, message("/metrics"))
	assert.Contains(t, client.lastText(t), "Admin only")
}

func TestInvalidAnswers(t *testing.T) {
	b, client := newTestBot(&fakeGenerator{}, Deps{})
	ctx := context.Background()

	b.HandleUpdate(ctx, message("hello"))
	assert.Equal(t, helpText, client.lastText(t))

	b.HandleUpdate(ctx, message("/new"))
	b.HandleUpdate(ctx, message("/skip"))
	assert.Equal(t, "⚠️ This field cannot be skipped", client.lastText(t))

	b.HandleUpdate(ctx, message("Shop"))
	b.HandleUpdate(ctx, message("Bakery"))
	assert.Contains(t, client.lastText(t), `Unknown business type "Bakery"`)
}

func TestFormatting(t *testing.T) {
	kb := dayKeyboard(testPlan(), -1)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "Mon", kb.InlineKeyboard[0][0].Text)

	kb = dayKeyboard(testPlan(), 0)
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "copy|en", *kb.InlineKeyboard[1][0].CallbackData)

	types := businessTypeKeyboard()
	assert.Len(t, types.InlineKeyboard, 4)
	assert.Equal(t, "Other", types.InlineKeyboard[3][0].Text)

	day := formatDay(testPlan().Schedule[0])
	assert.Contains(t, day, "⏰ Best time: 18:00")
	assert.True(t, strings.HasSuffix(day, "#new"))

	assert.Equal(t, "Ab", capitalize("ab"))
	assert.Equal(t, "", capitalize(""))
}

func TestErrorsStayGeneric(t *testing.T) {
	for _, err := range []error{llm.ErrEmptyResponse, &planner.DecodeError{Raw: "x", Err: errors.New("bad")}, errors.New("timeout")} {
		b, client := newTestBot(&fakeGenerator{err: err}, Deps{})
		fillForm(t, b, client)
		b.HandleUpdate(context.Background(), message("/skip"))
		assert.Equal(t, "❌ "+planner.FailureMessage, client.lastText(t))
	}
}
