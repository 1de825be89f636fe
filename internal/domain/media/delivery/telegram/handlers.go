// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/usecase/buissines"
)

// Constants for Telegram API
const (
	MaxMessageLength = 4096
	RequestTimeout   = 30 * time.Second
	UploadTimeout    = 10 * time.Minute
)

// Handlers contains Telegram update handlers
// Implements deps.TelegramSender interface
type Handlers struct {
	uc     *buissines.UseCase
	pool   deps.WorkerPool
	bot    *tgbot.Bot
	logger zerolog.Logger
}

var _ deps.TelegramSender = (*Handlers)(nil)

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, pool deps.WorkerPool, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		pool:   pool,
		bot:    bot,
		logger: logger,
	}
}

// SendMessage implements deps.TelegramSender interface
func (h *Handlers) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   truncate(text, MaxMessageLength),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send message")
		return fmt.Errorf("failed to send message: %w", err)
	}

	h.logger.Debug().Int64("chat_id", chatID).Int("text_length", len(text)).Msg("Message sent")
	return nil
}

// SendChoicePrompt implements deps.TelegramSender interface
func (h *Handlers) SendChoicePrompt(ctx context.Context, chatID int64, prompt *dto.ChoicePrompt) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        truncate(prompt.Text, MaxMessageLength),
		ReplyMarkup: BuildKeyboard(prompt),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Str("selection_id", prompt.SelectionID).Err(err).Msg("Failed to send choice prompt")
		return 0, fmt.Errorf("failed to send choice prompt: %w", err)
	}

	return msg.ID, nil
}

// EditMessageText implements deps.TelegramSender interface.
// The inline keyboard is removed along with the old text.
func (h *Handlers) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      truncate(text, MaxMessageLength),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit message text")
		return fmt.Errorf("failed to edit message: %w", err)
	}

	return nil
}

// SendVideo implements deps.TelegramSender interface
func (h *Handlers) SendVideo(ctx context.Context, chatID int64, filePath, caption string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err = h.bot.SendVideo(uploadCtx, &tgbot.SendVideoParams{
		ChatID:            chatID,
		Video:             &models.InputFileUpload{Filename: filepath.Base(filePath), Data: f},
		Caption:           caption,
		SupportsStreaming: true,
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Str("file", filepath.Base(filePath)).Err(err).Msg("Failed to upload video")
		return fmt.Errorf("failed to send video: %w", err)
	}

	h.logger.Info().Int64("chat_id", chatID).Msg("Video uploaded")
	return nil
}

// SendChatAction implements deps.TelegramSender interface
func (h *Handlers) SendChatAction(ctx context.Context, chatID int64, action string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendChatAction(msgCtx, &tgbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatAction(action),
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Str("action", action).Err(err).Msg("Failed to send chat action")
	}

	return err
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, "/start", "processing")

	resp, err := h.uc.HandleStart(ctx, &dto.StartCommandRequest{
		UserID:   userID,
		Username: update.Message.From.Username,
	})
	if err != nil {
		h.logError(userID, "/start", err)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "/start", "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(chatID, "/help", err)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
}

// HandleStats handles /stats command
func (h *Handlers) HandleStats(_ context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.pool.Go("stats", func(ctx context.Context) {
		resp, err := h.uc.HandleStats(ctx, userID)
		if err != nil {
			h.logError(userID, "/stats", err)
			h.sendResponse(ctx, chatID, fmt.Sprintf("Error: %s", err))
			return
		}
		h.sendResponse(ctx, chatID, resp.Message)
	})
}

// HandleText handles plain text messages that may carry a link
func (h *Handlers) HandleText(_ context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	req := &dto.LinkRequest{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
	}
	if update.Message.From != nil {
		req.UserID = update.Message.From.ID
	}

	h.pool.Go("link", func(ctx context.Context) {
		if err := h.uc.HandleLink(ctx, req); err != nil {
			h.logger.Warn().Int64("chat_id", req.ChatID).Int64("user_id", req.UserID).Err(err).Msg("Link handling finished with error")
		}
	})
}

// HandleCallback handles inline keyboard taps.
// The query is answered right away so the client stops its spinner.
func (h *Handlers) HandleCallback(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	answerCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	if _, err := bot.AnswerCallbackQuery(answerCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		h.logger.Debug().Err(err).Str("query_id", query.ID).Msg("Failed to answer callback query")
	}
	cancel()

	req := &dto.CallbackRequest{
		ChatID: query.From.ID,
		UserID: query.From.ID,
		Data:   query.Data,
	}
	switch {
	case query.Message.Message != nil:
		req.ChatID = query.Message.Message.Chat.ID
		req.MessageID = query.Message.Message.ID
	case query.Message.InaccessibleMessage != nil:
		req.ChatID = query.Message.InaccessibleMessage.Chat.ID
		req.MessageID = query.Message.InaccessibleMessage.MessageID
	}

	h.pool.Go("callback", func(ctx context.Context) {
		if err := h.uc.HandleCallback(ctx, req); err != nil {
			h.logger.Warn().Int64("chat_id", req.ChatID).Int64("user_id", req.UserID).Err(err).Msg("Callback handling finished with error")
		}
	})
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if err := h.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}

// truncate cuts text to at most limit bytes on a rune boundary
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	cut := limit - len("...")
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
