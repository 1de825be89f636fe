package buissines

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/consts"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
	mediaerrors "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/errors"
)

// Pipeline downloads one encoding, re-checks its real size and uploads it
type Pipeline struct {
	downloader deps.MediaDownloader
	pool       deps.WorkerPool
	repository deps.DeliveryRepository
	producer   deps.DeliveryEventProducer
	metrics    deps.MetricsRecorder
	sender     deps.TelegramSender

	maxBytes int64
	tempDir  string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewPipeline creates a new delivery pipeline.
// The sender is set later with SetSender.
func NewPipeline(
	downloader deps.MediaDownloader,
	pool deps.WorkerPool,
	repository deps.DeliveryRepository,
	producer deps.DeliveryEventProducer,
	metrics deps.MetricsRecorder,
	cfg *config.MediaConfig,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		downloader: downloader,
		pool:       pool,
		repository: repository,
		producer:   producer,
		metrics:    metrics,
		maxBytes:   cfg.MaxBytes(),
		tempDir:    cfg.TempDir,
		now:        time.Now,
		logger:     logger,
	}
}

// SetSender sets the TelegramSender after construction
func (p *Pipeline) SetSender(sender deps.TelegramSender) {
	p.sender = sender
}

// Deliver runs the download and upload for req.
// The result is never nil; its Size is set whenever a file was downloaded.
// Errors wrap ErrSizeExceeded or ErrDeliveryFailed.
func (p *Pipeline) Deliver(ctx context.Context, req entities.DeliveryRequest) (*entities.DeliveryResult, error) {
	if p.sender == nil {
		p.logger.Error().Msg("TelegramSender is not set")
		return &entities.DeliveryResult{}, fmt.Errorf("%w: %w", mediaerrors.ErrDeliveryFailed, mediaerrors.ErrSenderNotSet)
	}

	start := p.now()

	if err := p.sender.SendChatAction(ctx, req.ChatID, consts.ChatActionUploadVideo); err != nil {
		p.logger.Debug().Err(err).Int64("chat_id", req.ChatID).Msg("Failed to send upload action")
	}

	result, err := p.deliver(ctx, req)
	result.Duration = p.now().Sub(start)

	p.record(ctx, req, result, err)

	return result, err
}

func (p *Pipeline) deliver(ctx context.Context, req entities.DeliveryRequest) (*entities.DeliveryResult, error) {
	result := &entities.DeliveryResult{}

	dir, err := os.MkdirTemp(p.tempDir, "media-")
	if err != nil {
		return result, fmt.Errorf("%w: %w", mediaerrors.ErrDeliveryFailed, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to remove temp dir")
		}
	}()

	var path string
	err = p.pool.Run(ctx, func(ctx context.Context) error {
		var err error
		path, err = p.downloader.Download(ctx, req.URL, req.FormatID, dir)
		return err
	})
	if err != nil {
		return result, fmt.Errorf("%w: %w", mediaerrors.ErrDeliveryFailed, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return result, fmt.Errorf("%w: %w", mediaerrors.ErrDeliveryFailed, err)
	}
	result.Size = info.Size()

	if result.Size > p.maxBytes {
		return result, fmt.Errorf("%w: %s", mediaerrors.ErrSizeExceeded, FormatSize(result.Size))
	}

	result.Caption = fmt.Sprintf(consts.MsgCaption, req.Platform.Title(), FormatSize(result.Size))
	if err := p.sender.SendVideo(ctx, req.ChatID, path, result.Caption); err != nil {
		return result, fmt.Errorf("%w: %w", mediaerrors.ErrDeliveryFailed, err)
	}

	return result, nil
}

// record stores and publishes the outcome. Failures here never fail the delivery.
func (p *Pipeline) record(ctx context.Context, req entities.DeliveryRequest, result *entities.DeliveryResult, deliverErr error) {
	status := deliveryStatus(deliverErr)

	logEvent := p.logger.Info()
	if deliverErr != nil {
		logEvent = p.logger.Warn().Err(deliverErr)
	}
	logEvent.
		Int64("chat_id", req.ChatID).
		Str("platform", string(req.Platform)).
		Str("format_id", req.FormatID).
		Str("status", status).
		Int64("size", result.Size).
		Dur("duration", result.Duration).
		Msg("Delivery finished")

	p.metrics.RecordDelivery(string(req.Platform), status, result.Size, result.Duration.Seconds())

	id := uuid.NewString()
	errText := ""
	if deliverErr != nil {
		errText = deliverErr.Error()
	}

	record := &entities.DeliveryRecord{
		ID:        id,
		ChatID:    req.ChatID,
		UserID:    req.UserID,
		URL:       req.URL,
		Platform:  string(req.Platform),
		FormatID:  req.FormatID,
		SizeBytes: result.Size,
		Status:    status,
		Error:     errText,
	}
	if err := p.repository.Save(ctx, record); err != nil {
		p.logger.Warn().Err(err).Str("record_id", id).Msg("Failed to save delivery record")
	}

	event := dto.NewDeliveryEvent(id, p.now())
	event.ChatID = req.ChatID
	event.UserID = req.UserID
	event.URL = req.URL
	event.Platform = string(req.Platform)
	event.FormatID = req.FormatID
	event.Status = status
	event.SizeBytes = result.Size
	event.Error = errText
	event.DurationMs = result.Duration.Milliseconds()

	if err := p.producer.SendDeliveryEvent(ctx, event); err != nil {
		p.logger.Warn().Err(err).Str("event_id", id).Msg("Failed to publish delivery event")
	}
}

func deliveryStatus(err error) string {
	switch {
	case err == nil:
		return entities.DeliveryStatusDelivered
	case errors.Is(err, mediaerrors.ErrSizeExceeded):
		return entities.DeliveryStatusTooLarge
	default:
		return entities.DeliveryStatusFailed
	}
}

// FormatSize renders a byte count for captions and button labels
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}
