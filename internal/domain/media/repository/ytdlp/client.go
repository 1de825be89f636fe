// Package ytdlp implements metadata extraction and downloads on top of yt-dlp
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
)

// CommandRunner executes yt-dlp and returns its stdout
type CommandRunner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// Client implements deps.MetadataExtractor and deps.MediaDownloader
type Client struct {
	runner CommandRunner
	logger zerolog.Logger
}

var (
	_ deps.MetadataExtractor = (*Client)(nil)
	_ deps.MediaDownloader   = (*Client)(nil)
)

// NewClient creates a new yt-dlp client
func NewClient(runner CommandRunner, logger zerolog.Logger) *Client {
	return &Client{
		runner: runner,
		logger: logger,
	}
}

type ytdlpFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *int     `json:"height"`
	VCodec         *string  `json:"vcodec"`
	ACodec         *string  `json:"acodec"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
}

type ytdlpInfo struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	WebpageURL string        `json:"webpage_url"`
	Duration   float64       `json:"duration"`
	Formats    []ytdlpFormat `json:"formats"`
}

// Extract lists the encodings of url without downloading anything
func (c *Client) Extract(ctx context.Context, url string) (*entities.MediaInfo, error) {
	out, err := c.runner.Run(ctx, "-J", "--skip-download", url)
	if err != nil {
		return nil, err
	}

	info, err := parseInfo(out)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("id", info.ID).
		Int("formats", len(info.Candidates)).
		Msg("Metadata extracted")

	return info, nil
}

// Download fetches exactly formatID into dir without post-processing
func (c *Client) Download(ctx context.Context, url, formatID, dir string) (string, error) {
	out, err := c.runner.Run(ctx,
		"-f", formatID,
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--restrict-filenames",
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
		url,
	)
	if err != nil {
		return "", err
	}

	if path := printedPath(out); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return findMP4(dir)
}

func parseInfo(data []byte) (*entities.MediaInfo, error) {
	var raw ytdlpInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yt-dlp metadata parse error: %w", err)
	}

	info := &entities.MediaInfo{
		ID:         raw.ID,
		Title:      raw.Title,
		WebpageURL: raw.WebpageURL,
		Duration:   raw.Duration,
		Candidates: make([]entities.Candidate, 0, len(raw.Formats)),
	}
	for _, f := range raw.Formats {
		info.Candidates = append(info.Candidates, toCandidate(f))
	}
	return info, nil
}

// toCandidate treats a missing codec as present; only an explicit "none" marks a missing track
func toCandidate(f ytdlpFormat) entities.Candidate {
	c := entities.Candidate{
		FormatID:  f.FormatID,
		Container: f.Ext,
		HasVideo:  f.VCodec == nil || *f.VCodec != "none",
		HasAudio:  f.ACodec == nil || *f.ACodec != "none",
	}
	if f.Height != nil {
		c.Height = *f.Height
	}

	switch {
	case f.Filesize != nil:
		c.SizeKnown, c.Size = true, int64(*f.Filesize)
	case f.FilesizeApprox != nil:
		c.SizeKnown, c.Size = true, int64(*f.FilesizeApprox)
	}
	return c
}

func printedPath(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func findMP4(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read download dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".mp4") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("download finished but no mp4 file was found")
}
