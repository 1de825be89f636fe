// Package dto contains data transfer objects for the media domain
package dto

import "time"

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// LinkRequest is an inbound text message that may carry a media link
type LinkRequest struct {
	ChatID int64  `json:"chatId"`
	UserID int64  `json:"userId"`
	Text   string `json:"text"`
}

// CallbackRequest is an inbound button tap on a choice prompt
type CallbackRequest struct {
	ChatID    int64  `json:"chatId"`
	UserID    int64  `json:"userId"`
	MessageID int    `json:"messageId"`
	Data      string `json:"data"`
}

// SelectionRequest is a decoded format button tap
type SelectionRequest struct {
	ChatID      int64  `json:"chatId"`
	UserID      int64  `json:"userId"`
	MessageID   int    `json:"messageId"`
	SelectionID string `json:"selectionId"`
	Token       string `json:"token"`
}

// CancelRequest is a decoded cancel button tap
type CancelRequest struct {
	ChatID      int64  `json:"chatId"`
	UserID      int64  `json:"userId"`
	MessageID   int    `json:"messageId"`
	SelectionID string `json:"selectionId"`
}

// ChoiceOption is one button of a choice prompt
type ChoiceOption struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

// ChoicePrompt is everything the transport needs to render a format picker
type ChoicePrompt struct {
	SelectionID string         `json:"selectionId"`
	Text        string         `json:"text"`
	Options     []ChoiceOption `json:"options"`
	CancelLabel string         `json:"cancelLabel"`
}

// DeliveryEvent is published after every delivery attempt
type DeliveryEvent struct {
	ID         string `json:"id"`
	ChatID     int64  `json:"chat_id"`
	UserID     int64  `json:"user_id"`
	URL        string `json:"url"`
	Platform   string `json:"platform"`
	FormatID   string `json:"format_id"`
	Status     string `json:"status"`
	SizeBytes  int64  `json:"size_bytes"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// NewDeliveryEvent fills CreatedAt in RFC3339 UTC
func NewDeliveryEvent(id string, createdAt time.Time) *DeliveryEvent {
	return &DeliveryEvent{
		ID:        id,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}
