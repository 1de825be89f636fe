// Package deps contains interface definitions for the media domain dependencies
package deps

import (
	"context"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
)

// TelegramSender defines interface for talking back to the chat.
// This interface is used to break the cyclic dependency between UseCase and TelegramHandler
type TelegramSender interface {
	// SendMessage sends a text message to a chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendChoicePrompt sends a format picker and returns its message ID
	SendChoicePrompt(ctx context.Context, chatID int64, prompt *dto.ChoicePrompt) (messageID int, err error)

	// EditMessageText replaces the text of a sent message and drops its keyboard
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error

	// SendVideo uploads a local file as a streamable video
	SendVideo(ctx context.Context, chatID int64, filePath, caption string) error

	// SendChatAction sends typing indicator or other chat action
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// MetadataExtractor lists the encodings available for a link
type MetadataExtractor interface {
	Extract(ctx context.Context, url string) (*entities.MediaInfo, error)
}

// MediaDownloader fetches one encoding into dir and returns the file path
type MediaDownloader interface {
	Download(ctx context.Context, url, formatID, dir string) (string, error)
}

// SessionStore keeps at most one pending selection per (chat, user)
type SessionStore interface {
	Put(chatID, userID int64, sel entities.PendingSelection)
	Get(chatID, userID int64) (entities.PendingSelection, bool)
	Take(chatID, userID int64) (entities.PendingSelection, bool)
	TakeIf(chatID, userID int64, selectionID string) (entities.PendingSelection, bool)
	Count() int
}

// WorkerPool runs background tasks and bounds blocking work
type WorkerPool interface {
	// Go runs task in the background on the pool's own context
	Go(name string, task func(ctx context.Context))

	// Run executes fn once a worker slot is free and waits for it
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// DeliveryEventProducer publishes delivery outcomes
type DeliveryEventProducer interface {
	// SendDeliveryEvent publishes one delivery attempt
	SendDeliveryEvent(ctx context.Context, event *dto.DeliveryEvent) error

	// Close closes the producer
	Close() error
}

// DeliveryRepository stores delivery history
type DeliveryRepository interface {
	// Save saves a delivery record
	Save(ctx context.Context, record *entities.DeliveryRecord) error

	// StatsByUser returns the user's successful delivery totals
	StatsByUser(ctx context.Context, userID int64) (*entities.DeliveryStats, error)

	// Enabled reports whether history is actually persisted
	Enabled() bool
}

// MetricsRecorder receives domain measurements
type MetricsRecorder interface {
	RecordLink(platform string)
	RecordOutcome(outcome string)
	RecordDelivery(platform, status string, sizeBytes int64, seconds float64)
	SetPendingSessions(count int)
}
