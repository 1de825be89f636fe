// Package buissines contains business logic for the media domain
package buissines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/consts"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
	mediaerrors "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/errors"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/platform"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/ranking"
)

// Outcome labels reported to metrics
const (
	outcomeIgnored          = "ignored"
	outcomeUnknownPlatform  = "unknown_platform"
	outcomeExtractionFailed = "extraction_failed"
	outcomeNoEligible       = "no_eligible_format"
	outcomePrompted         = "prompted"
	outcomeDelivered        = "delivered"
	outcomeSizeExceeded     = "size_exceeded"
	outcomeDeliveryFailed   = "delivery_failed"
	outcomeSessionNotFound  = "session_not_found"
	outcomeCancelled        = "cancelled"
	outcomeUnknownAction    = "unknown_action"
)

// UseCase drives a link from classification to either a prompt or a delivery
type UseCase struct {
	extractor  deps.MetadataExtractor
	store      deps.SessionStore
	pool       deps.WorkerPool
	pipeline   *Pipeline
	ranker     *ranking.Ranker
	repository deps.DeliveryRepository
	metrics    deps.MetricsRecorder
	sender     deps.TelegramSender

	maxMB  int
	now    func() time.Time
	newID  func() string
	logger zerolog.Logger
}

// NewUseCase creates a new UseCase instance
// Note: sender is not passed here to break cyclic dependency
// Use SetSender after creating TelegramHandlers
func NewUseCase(
	extractor deps.MetadataExtractor,
	store deps.SessionStore,
	pool deps.WorkerPool,
	pipeline *Pipeline,
	ranker *ranking.Ranker,
	repository deps.DeliveryRepository,
	metrics deps.MetricsRecorder,
	cfg *config.MediaConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		extractor:  extractor,
		store:      store,
		pool:       pool,
		pipeline:   pipeline,
		ranker:     ranker,
		repository: repository,
		metrics:    metrics,
		maxMB:      cfg.MaxMB,
		now:        time.Now,
		newID:      newSelectionID,
		logger:     logger,
	}
}

// SetSender sets the TelegramSender after construction
// This is called by fx.Invoke to resolve cyclic dependency
func (uc *UseCase) SetSender(sender deps.TelegramSender) {
	uc.sender = sender
	uc.pipeline.SetSender(sender)
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(_ context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("User started bot")

	return &dto.CommandResponse{Message: fmt.Sprintf(consts.MsgStart, uc.maxMB)}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(_ context.Context) (*dto.CommandResponse, error) {
	return &dto.CommandResponse{Message: fmt.Sprintf(consts.MsgHelp, uc.maxMB)}, nil
}

// HandleStats handles /stats command
func (uc *UseCase) HandleStats(ctx context.Context, userID int64) (*dto.CommandResponse, error) {
	if !uc.repository.Enabled() {
		return &dto.CommandResponse{Message: consts.MsgStatsOffline}, nil
	}

	stats, err := uc.repository.StatsByUser(ctx, userID)
	if err != nil {
		uc.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load delivery stats")
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	if stats.Count == 0 {
		return &dto.CommandResponse{Message: consts.MsgStatsEmpty}, nil
	}

	return &dto.CommandResponse{Message: fmt.Sprintf(consts.MsgStats, stats.Count, FormatSize(stats.Bytes))}, nil
}

// HandleLink handles a text message. Messages without a link are ignored.
func (uc *UseCase) HandleLink(ctx context.Context, req *dto.LinkRequest) error {
	if uc.sender == nil {
		uc.logger.Error().Msg("TelegramSender is not set")
		return mediaerrors.ErrSenderNotSet
	}

	url := platform.ExtractURL(req.Text)
	if url == "" {
		uc.metrics.RecordOutcome(outcomeIgnored)
		return nil
	}

	p := platform.Classify(url)
	uc.metrics.RecordLink(string(p))

	log := uc.logger.With().
		Int64("chat_id", req.ChatID).
		Int64("user_id", req.UserID).
		Str("platform", string(p)).
		Logger()

	if !p.IsKnown() {
		uc.reply(ctx, req.ChatID, consts.MsgUnknownPlatform)
		uc.metrics.RecordOutcome(outcomeUnknownPlatform)
		return mediaerrors.ErrUnknownPlatform
	}

	log.Info().Str("url", url).Msg("Link received")

	if err := uc.sender.SendChatAction(ctx, req.ChatID, consts.ChatActionTyping); err != nil {
		log.Debug().Err(err).Msg("Failed to send typing action")
	}

	var info *entities.MediaInfo
	err := uc.pool.Run(ctx, func(ctx context.Context) error {
		var err error
		info, err = uc.extractor.Extract(ctx, url)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("Metadata extraction failed")
		uc.reply(ctx, req.ChatID, fmt.Sprintf(consts.MsgExtractionFailed, err))
		uc.metrics.RecordOutcome(outcomeExtractionFailed)
		return fmt.Errorf("%w: %w", mediaerrors.ErrExtractionFailed, err)
	}

	if p.SelectionMode() == platform.ModeManual {
		return uc.presentChoices(ctx, req, url, p, info)
	}
	return uc.autoDeliver(ctx, req, url, p, info)
}

// presentChoices stores a pending selection and sends the format picker
func (uc *UseCase) presentChoices(ctx context.Context, req *dto.LinkRequest, url string, p platform.Platform, info *entities.MediaInfo) error {
	choices := uc.ranker.Choices(info.Candidates)
	if len(choices) == 0 {
		uc.reply(ctx, req.ChatID, fmt.Sprintf(consts.MsgNoManualFormat, uc.maxMB, p.Title()))
		uc.metrics.RecordOutcome(outcomeNoEligible)
		return mediaerrors.ErrNoEligibleFormat
	}

	sel := uc.newSelection(req, url, p, info, choices)
	uc.store.Put(req.ChatID, req.UserID, sel)
	uc.metrics.SetPendingSessions(uc.store.Count())

	if _, err := uc.sender.SendChoicePrompt(ctx, req.ChatID, BuildPrompt(sel, uc.maxMB)); err != nil {
		uc.store.TakeIf(req.ChatID, req.UserID, sel.SelectionID)
		uc.metrics.SetPendingSessions(uc.store.Count())
		return fmt.Errorf("failed to send choice prompt: %w", err)
	}

	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("selection_id", sel.SelectionID).
		Int("choices", len(choices)).
		Msg("Choice prompt sent")
	uc.metrics.RecordOutcome(outcomePrompted)
	return nil
}

// autoDeliver picks the best candidate and delivers it without a prompt
func (uc *UseCase) autoDeliver(ctx context.Context, req *dto.LinkRequest, url string, p platform.Platform, info *entities.MediaInfo) error {
	best, ok := uc.ranker.Best(info.Candidates)
	if !ok {
		uc.reply(ctx, req.ChatID, fmt.Sprintf(consts.MsgNoAutoFormat, uc.maxMB, p.Title()))
		uc.metrics.RecordOutcome(outcomeNoEligible)
		return mediaerrors.ErrNoEligibleFormat
	}

	return uc.deliver(ctx, entities.DeliveryRequest{
		ChatID:   req.ChatID,
		UserID:   req.UserID,
		URL:      url,
		FormatID: best.FormatID,
		Platform: p,
	})
}

// HandleCallback decodes a button tap and dispatches it
func (uc *UseCase) HandleCallback(ctx context.Context, req *dto.CallbackRequest) error {
	if uc.sender == nil {
		uc.logger.Error().Msg("TelegramSender is not set")
		return mediaerrors.ErrSenderNotSet
	}

	action := dto.ParseCallback(req.Data)
	switch action.Kind {
	case dto.CallbackKindSelect:
		return uc.HandleSelection(ctx, &dto.SelectionRequest{
			ChatID:      req.ChatID,
			UserID:      req.UserID,
			MessageID:   req.MessageID,
			SelectionID: action.SelectionID,
			Token:       action.Token,
		})
	case dto.CallbackKindCancel:
		return uc.HandleCancel(ctx, &dto.CancelRequest{
			ChatID:      req.ChatID,
			UserID:      req.UserID,
			MessageID:   req.MessageID,
			SelectionID: action.SelectionID,
		})
	default:
		uc.edit(ctx, req.ChatID, req.MessageID, consts.MsgUnknownAction)
		uc.metrics.RecordOutcome(outcomeUnknownAction)
		return fmt.Errorf("%w: %q", mediaerrors.ErrUnknownAction, req.Data)
	}
}

// HandleSelection resolves a format button and delivers the chosen candidate.
// The selection is consumed before delivery starts, so a second tap finds nothing.
func (uc *UseCase) HandleSelection(ctx context.Context, req *dto.SelectionRequest) error {
	sel, ok := uc.store.Get(req.ChatID, req.UserID)
	if !ok || sel.SelectionID != req.SelectionID {
		return uc.sessionNotFound(ctx, req.ChatID, req.MessageID, consts.MsgSessionNotFound)
	}

	candidate, ok := sel.Choice(req.Token)
	if !ok {
		return uc.sessionNotFound(ctx, req.ChatID, req.MessageID, consts.MsgFormatNotFound)
	}

	if _, ok := uc.store.TakeIf(req.ChatID, req.UserID, req.SelectionID); !ok {
		return uc.sessionNotFound(ctx, req.ChatID, req.MessageID, consts.MsgSessionNotFound)
	}
	uc.metrics.SetPendingSessions(uc.store.Count())

	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("selection_id", req.SelectionID).
		Str("format_id", candidate.FormatID).
		Msg("Format selected")

	uc.edit(ctx, req.ChatID, req.MessageID, consts.MsgDownloading)

	return uc.deliver(ctx, entities.DeliveryRequest{
		ChatID:   req.ChatID,
		UserID:   req.UserID,
		URL:      sel.URL,
		FormatID: candidate.FormatID,
		Platform: sel.Platform,
	})
}

// HandleCancel drops the pending selection the cancel button belongs to
func (uc *UseCase) HandleCancel(ctx context.Context, req *dto.CancelRequest) error {
	if _, ok := uc.store.TakeIf(req.ChatID, req.UserID, req.SelectionID); !ok {
		return uc.sessionNotFound(ctx, req.ChatID, req.MessageID, consts.MsgSessionNotFound)
	}
	uc.metrics.SetPendingSessions(uc.store.Count())

	uc.edit(ctx, req.ChatID, req.MessageID, consts.MsgCancelled)
	uc.metrics.RecordOutcome(outcomeCancelled)
	return nil
}

// deliver runs the pipeline and turns its error into a reply
func (uc *UseCase) deliver(ctx context.Context, req entities.DeliveryRequest) error {
	result, err := uc.pipeline.Deliver(ctx, req)
	switch {
	case err == nil:
		uc.metrics.RecordOutcome(outcomeDelivered)
	case errors.Is(err, mediaerrors.ErrSizeExceeded):
		uc.reply(ctx, req.ChatID, fmt.Sprintf(consts.MsgSizeExceeded, FormatSize(result.Size), uc.maxMB))
		uc.metrics.RecordOutcome(outcomeSizeExceeded)
	default:
		uc.reply(ctx, req.ChatID, fmt.Sprintf(consts.MsgDeliveryError, err))
		uc.metrics.RecordOutcome(outcomeDeliveryFailed)
	}
	return err
}

func (uc *UseCase) sessionNotFound(ctx context.Context, chatID int64, messageID int, text string) error {
	uc.edit(ctx, chatID, messageID, text)
	uc.metrics.RecordOutcome(outcomeSessionNotFound)
	return mediaerrors.ErrSessionNotFound
}

func (uc *UseCase) newSelection(req *dto.LinkRequest, url string, p platform.Platform, info *entities.MediaInfo, choices []entities.Candidate) entities.PendingSelection {
	sel := entities.PendingSelection{
		SelectionID: uc.newID(),
		ChatID:      req.ChatID,
		UserID:      req.UserID,
		URL:         url,
		Platform:    p,
		Title:       info.Title,
		Choices:     make(map[string]entities.Candidate, len(choices)),
		Tokens:      make([]string, 0, len(choices)),
		CreatedAt:   uc.now(),
	}
	if sel.Title == "" {
		sel.Title = fmt.Sprintf(consts.MsgDefaultTitle, p.Title())
	}

	for i, c := range choices {
		token := Token(i)
		sel.Choices[token] = c
		sel.Tokens = append(sel.Tokens, token)
	}
	return sel
}

// reply sends text and only logs a transport failure
func (uc *UseCase) reply(ctx context.Context, chatID int64, text string) {
	if err := uc.sender.SendMessage(ctx, chatID, text); err != nil {
		uc.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// edit replaces the prompt text, or sends a new message when the prompt is unknown
func (uc *UseCase) edit(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		uc.reply(ctx, chatID, text)
		return
	}
	if err := uc.sender.EditMessageText(ctx, chatID, messageID, text); err != nil {
		uc.logger.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("Failed to edit prompt")
	}
}

// Token returns the button token for the i-th choice
func Token(i int) string {
	return fmt.Sprintf("f%d", i)
}

func newSelectionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
