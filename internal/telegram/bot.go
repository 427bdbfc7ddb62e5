package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"ai-content-planner/internal/config"
	"ai-content-planner/internal/export"
	"ai-content-planner/internal/ghost"
	"ai-content-planner/internal/metrics"
	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"
	"ai-content-planner/internal/session"
	"ai-content-planner/internal/sitebrief"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the part of the Telegram API the bot talks to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type briefFetcher interface {
	Fetch(ctx context.Context, url string) (sitebrief.Brief, error)
}

type usageSource interface {
	GetDailyUsage(days int) ([]metrics.DailyUsage, error)
}

// Deps are the optional collaborators of the bot. Nil fields disable the
// matching command.
type Deps struct {
	Fetcher   briefFetcher
	Publisher ghost.Publisher
	Usage     usageSource
}

// Bot serves the content planner over Telegram.
type Bot struct {
	api      *tgbotapi.BotAPI
	client   sender
	sessions *session.Store
	deps     Deps
	cfg      *config.Config
	logger   zerolog.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, gen planner.PlanGenerator, deps Deps, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")

	if cfg.TelegramWebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
		}
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		logger.Info().Str("description", resp.Description).Msg("webhook set")
	}

	b := newBot(api, cfg, gen, deps, logger)
	b.api = api
	return b, nil
}

func newBot(client sender, cfg *config.Config, gen planner.PlanGenerator, deps Deps, logger zerolog.Logger) *Bot {
	return &Bot{
		client:   client,
		sessions: session.NewStore(gen),
		deps:     deps,
		cfg:      cfg,
		logger:   logger,
	}
}

// WebhookHandler parses incoming updates and handles them in the background.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("error parsing update")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		ctx := b.logger.WithContext(context.Background())
		go b.HandleUpdate(ctx, *update)
	}
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.Message == nil || !b.isAllowed(q.From) {
			return
		}
		b.handleCallbackQuery(ctx, q)
	case update.Message != nil:
		if !b.isAllowed(update.Message.From) {
			return
		}
		b.processMessage(ctx, update.Message)
	}
}

// isAllowed checks the allow list. An empty list admits everyone.
func (b *Bot) isAllowed(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	if len(b.cfg.TelegramAllowedUserIDs) == 0 || slices.Contains(b.cfg.TelegramAllowedUserIDs, user.ID) {
		return true
	}
	b.logger.Warn().Int64("user_id", user.ID).Str("username", user.UserName).Msg("unauthorized access attempt")
	return false
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sess := b.sessions.Get(chatID)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "new":
			form := sess.StartForm()
			b.sendText(ctx, chatID, welcomeText+"\n\n"+form.Question())
		case "skip":
			b.answerForm(ctx, sess, func(f *profile.Form) error { return f.Skip() })
		case "plan":
			b.sendPlanOverview(ctx, sess)
		case "export":
			b.sendExport(ctx, sess)
		case "publish":
			b.publishDraft(ctx, sess)
		case "metrics":
			b.handleMetricsRequest(ctx, msg)
		default:
			b.sendText(ctx, chatID, helpText)
		}
		return
	}

	b.answerForm(ctx, sess, func(f *profile.Form) error { return f.Answer(msg.Text) })
}

// answerForm applies one answer to the session form, then either asks the
// next question or submits the completed profile.
func (b *Bot) answerForm(ctx context.Context, sess *session.Session, apply func(f *profile.Form) error) {
	var (
		next     profile.Step
		question string
	)
	err := sess.WithForm(func(f *profile.Form) error {
		if err := apply(f); err != nil {
			return err
		}
		next, question = f.Step(), f.Question()
		return nil
	})

	switch {
	case errors.Is(err, session.ErrNoForm), errors.Is(err, profile.ErrFormComplete):
		b.sendText(ctx, sess.ChatID, helpText)
		return
	case err != nil:
		b.sendText(ctx, sess.ChatID, fmt.Sprintf("⚠️ %s", capitalize(err.Error())))
		return
	}

	switch next {
	case profile.StepDone:
		b.submit(ctx, sess)
	case profile.StepType:
		msg := tgbotapi.NewMessage(sess.ChatID, question)
		msg.ReplyMarkup = businessTypeKeyboard()
		b.send(ctx, msg)
	default:
		b.sendText(ctx, sess.ChatID, question)
	}
}

// submit generates a plan from the completed form. The form is kept until a
// plan is produced so a failed attempt can be retried.
func (b *Bot) submit(ctx context.Context, sess *session.Session) {
	var (
		prof    profile.BusinessProfile
		website string
	)
	err := sess.WithForm(func(f *profile.Form) error {
		var err error
		prof, err = f.Profile()
		website = f.Website()
		return err
	})
	if err != nil {
		b.sendText(ctx, sess.ChatID, helpText)
		return
	}

	status, err := b.client.Send(tgbotapi.NewMessage(sess.ChatID, "⏳ Generating your 7-day content plan..."))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to send status message")
		return
	}

	if website != "" && b.deps.Fetcher != nil {
		brief, err := b.deps.Fetcher.Fetch(ctx, website)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("url", website).Msg("failed to fetch website brief")
		} else {
			prof.WebsiteBrief = brief.String()
		}
	}

	plan, err := sess.Generator.GeneratePlan(ctx, prof)
	if err != nil {
		b.reportFailure(ctx, sess.ChatID, status.MessageID, err)
		return
	}

	sess.View.SetPlan(plan)
	sess.FinishForm()

	edit := tgbotapi.NewEditMessageText(sess.ChatID, status.MessageID, formatPlanOverview(plan))
	edit.ParseMode = tgbotapi.ModeHTML
	keyboard := dayKeyboard(plan, -1)
	edit.ReplyMarkup = &keyboard
	b.send(ctx, edit)
}

func (b *Bot) reportFailure(ctx context.Context, chatID int64, messageID int, err error) {
	kind := planner.ErrorKind(err)
	if kind == "in_progress" {
		b.send(ctx, tgbotapi.NewEditMessageText(chatID, messageID, "⏳ A plan is already being generated. Please wait."))
		return
	}

	zerolog.Ctx(ctx).Error().Err(err).Str("kind", kind).Int64("chat_id", chatID).Msg("error generating plan")

	edit := tgbotapi.NewEditMessageText(chatID, messageID, "❌ "+planner.FailureMessage)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", "retry")),
	)
	edit.ReplyMarkup = &keyboard
	b.send(ctx, edit)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	sess := b.sessions.Get(chatID)
	action, arg, _ := strings.Cut(query.Data, "|")

	// Answer callback to remove spinner
	notice := ""
	defer func() {
		if _, err := b.client.Request(tgbotapi.NewCallback(query.ID, notice)); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to answer callback")
		}
	}()

	switch action {
	case "type":
		i, err := strconv.Atoi(arg)
		types := profile.BusinessTypes()
		if err != nil || i < 0 || i >= len(types) {
			notice = "Unknown business type"
			return
		}
		b.answerForm(ctx, sess, func(f *profile.Form) error {
			if f.Step() != profile.StepType {
				return fmt.Errorf("business type was already chosen")
			}
			return f.Answer(string(types[i]))
		})
	case "retry":
		b.submit(ctx, sess)
	case "day":
		i, err := strconv.Atoi(arg)
		if err != nil || sess.View.SelectDay(i) != nil {
			notice = "That day is not available"
			return
		}
		b.showSelectedDay(ctx, sess, query.Message.MessageID)
	case "back":
		plan := sess.View.Plan()
		if plan == nil {
			notice = "No plan yet"
			return
		}
		edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, formatPlanOverview(plan))
		edit.ParseMode = tgbotapi.ModeHTML
		keyboard := dayKeyboard(plan, -1)
		edit.ReplyMarkup = &keyboard
		b.send(ctx, edit)
	case "copy":
		day, ok := sess.View.SelectedDay()
		if !ok {
			notice = "No plan yet"
			return
		}
		caption := day.CaptionEnglish
		if arg == "ar" {
			caption = day.CaptionArabic
		}
		// Sent without formatting so it can be copied verbatim.
		b.send(ctx, tgbotapi.NewMessage(chatID, caption))
		notice = "Caption sent"
	}
}

func (b *Bot) showSelectedDay(ctx context.Context, sess *session.Session, messageID int) {
	plan := sess.View.Plan()
	day, ok := sess.View.SelectedDay()
	if !ok {
		return
	}
	edit := tgbotapi.NewEditMessageText(sess.ChatID, messageID, formatDay(day))
	edit.ParseMode = tgbotapi.ModeHTML
	keyboard := dayKeyboard(plan, sess.View.SelectedIndex())
	edit.ReplyMarkup = &keyboard
	b.send(ctx, edit)
}

func (b *Bot) sendPlanOverview(ctx context.Context, sess *session.Session) {
	plan := sess.View.Plan()
	if plan == nil {
		b.sendText(ctx, sess.ChatID, noPlanText)
		return
	}
	msg := tgbotapi.NewMessage(sess.ChatID, formatPlanOverview(plan))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = dayKeyboard(plan, -1)
	b.send(ctx, msg)
}

func (b *Bot) sendExport(ctx context.Context, sess *session.Session) {
	plan := sess.View.Plan()
	if plan == nil {
		b.sendText(ctx, sess.ChatID, noPlanText)
		return
	}
	doc := tgbotapi.NewDocument(sess.ChatID, tgbotapi.FileBytes{
		Name:  export.FileName + ".txt",
		Bytes: []byte(export.RenderText(export.Layout(plan))),
	})
	b.send(ctx, doc)
}

func (b *Bot) publishDraft(ctx context.Context, sess *session.Session) {
	plan := sess.View.Plan()
	switch {
	case plan == nil:
		b.sendText(ctx, sess.ChatID, noPlanText)
		return
	case b.deps.Publisher == nil:
		b.sendText(ctx, sess.ChatID, "Publishing is not configured.")
		return
	}

	post, err := b.deps.Publisher.CreatePost(ctx, "Content Plan: "+plan.WeekGoal, export.HTML(plan), false)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to publish draft")
		b.sendText(ctx, sess.ChatID, "❌ Failed to create the draft post.")
		return
	}
	b.sendText(ctx, sess.ChatID, fmt.Sprintf("✅ Draft saved: %s", post.Title))
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID != b.cfg.AdminTelegramID || b.deps.Usage == nil {
		b.sendText(ctx, msg.Chat.ID, "⛔ Access Denied: Admin only.")
		return
	}

	usage, err := b.deps.Usage.GetDailyUsage(7)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to fetch metrics")
		b.sendText(ctx, msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}
	health := metrics.CollectHealth(b.cfg.DatabasePath, b.sessions.Len())
	b.sendText(ctx, msg.Chat.ID, metrics.FormatReport(usage, health))
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := b.client.Send(c); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to send telegram message")
	}
}
