// Package ytdlp runs the yt-dlp binary
package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/config"
)

// Runner executes yt-dlp with the flags every call shares
type Runner struct {
	binary     string
	commonArgs []string
	useCookies bool
	logger     zerolog.Logger
}

// NewRunner builds the shared flag set from config.
// The cookies file is only passed when it exists and is not empty.
func NewRunner(cfg *config.ExtractorConfig, logger zerolog.Logger) *Runner {
	useCookies := CookiesUsable(cfg.CookiesPath)

	args := []string{
		"--no-warnings",
		"--no-playlist",
		"--retries", strconv.Itoa(cfg.Retries),
		"--fragment-retries", strconv.Itoa(cfg.Retries),
		"--socket-timeout", strconv.Itoa(int(cfg.SocketTimeout.Seconds())),
	}
	if cfg.UserAgent != "" {
		args = append(args, "--user-agent", cfg.UserAgent)
	}
	if useCookies {
		args = append(args, "--cookies", cfg.CookiesPath)
	}

	return &Runner{
		binary:     cfg.BinaryPath,
		commonArgs: args,
		useCookies: useCookies,
		logger:     logger,
	}
}

// CookiesUsable reports whether path is a non-empty regular file
func CookiesUsable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// UsesCookies reports whether calls pass --cookies
func (r *Runner) UsesCookies() bool {
	return r.useCookies
}

// Args returns the full argument list for a call
func (r *Runner) Args(args ...string) []string {
	out := make([]string, 0, len(r.commonArgs)+len(args))
	out = append(out, r.commonArgs...)
	return append(out, args...)
}

// Run executes yt-dlp and returns stdout. Stderr is folded into the error.
func (r *Runner) Run(ctx context.Context, args ...string) ([]byte, error) {
	full := r.Args(args...)
	cmd := exec.CommandContext(ctx, r.binary, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().Strs("args", args).Msg("Running yt-dlp")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("yt-dlp: %w", err)
		}
		return nil, fmt.Errorf("yt-dlp: %s", lastLine(msg))
	}

	return stdout.Bytes(), nil
}

// Version returns the installed yt-dlp version
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, r.binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Name implements the health checker contract
func (r *Runner) Name() string {
	return "yt-dlp"
}

// HealthCheck verifies the binary can be resolved
func (r *Runner) HealthCheck(_ context.Context) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("yt-dlp binary %q not found: %w", r.binary, err)
	}
	return nil
}

// lastLine keeps the final ERROR line yt-dlp prints instead of its whole log
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return s
}
