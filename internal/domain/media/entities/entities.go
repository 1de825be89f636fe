// Package entities contains domain entities
package entities

import (
	"time"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/platform"
)

// Candidate is one encoding offered by the extractor for a media item
type Candidate struct {
	FormatID  string
	Container string
	Height    int
	HasVideo  bool
	HasAudio  bool
	SizeKnown bool
	Size      int64
}

// MediaInfo is the extractor's description of a media item
type MediaInfo struct {
	ID         string
	Title      string
	WebpageURL string
	Duration   float64
	Candidates []Candidate
}

// PendingSelection is a choice prompt waiting for the user's button tap.
// Keyed by (ChatID, UserID) in the session store.
type PendingSelection struct {
	SelectionID string
	ChatID      int64
	UserID      int64
	URL         string
	Platform    platform.Platform
	Title       string
	Choices     map[string]Candidate
	Tokens      []string
	CreatedAt   time.Time
}

// Choice resolves a button token to its candidate
func (p PendingSelection) Choice(token string) (Candidate, bool) {
	c, ok := p.Choices[token]
	return c, ok
}

// DeliveryRequest describes one download-and-send job
type DeliveryRequest struct {
	ChatID   int64
	UserID   int64
	URL      string
	FormatID string
	Platform platform.Platform
}

// DeliveryResult describes what the pipeline did with a request.
// Size is filled whenever a file was downloaded, including oversized ones.
type DeliveryResult struct {
	Size     int64
	Caption  string
	Duration time.Duration
}
