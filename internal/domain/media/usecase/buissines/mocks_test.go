package buissines

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/ranking"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/session"
)

type sentVideo struct {
	chatID  int64
	path    string
	caption string
}

type editedMessage struct {
	chatID    int64
	messageID int
	text      string
}

// mockSender records everything sent to the chat
type mockSender struct {
	mu       sync.Mutex
	messages []string
	prompts  []*dto.ChoicePrompt
	edits    []editedMessage
	videos   []sentVideo
	actions  []string

	sendPromptFunc func(ctx context.Context, chatID int64, prompt *dto.ChoicePrompt) (int, error)
	sendVideoFunc  func(ctx context.Context, chatID int64, filePath, caption string) error
}

func (m *mockSender) SendMessage(_ context.Context, _ int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	return nil
}

func (m *mockSender) SendChoicePrompt(ctx context.Context, chatID int64, prompt *dto.ChoicePrompt) (int, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.sendPromptFunc != nil {
		return m.sendPromptFunc(ctx, chatID, prompt)
	}
	return 100, nil
}

func (m *mockSender) EditMessageText(_ context.Context, chatID int64, messageID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, editedMessage{chatID: chatID, messageID: messageID, text: text})
	return nil
}

func (m *mockSender) SendVideo(ctx context.Context, chatID int64, filePath, caption string) error {
	if m.sendVideoFunc != nil {
		if err := m.sendVideoFunc(ctx, chatID, filePath, caption); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos = append(m.videos, sentVideo{chatID: chatID, path: filePath, caption: caption})
	return nil
}

func (m *mockSender) SendChatAction(_ context.Context, _ int64, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return nil
}

// mockExtractor returns a fixed media info
type mockExtractor struct {
	extractFunc func(ctx context.Context, url string) (*entities.MediaInfo, error)
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (*entities.MediaInfo, error) {
	if m.extractFunc != nil {
		return m.extractFunc(ctx, url)
	}
	return &entities.MediaInfo{}, nil
}

// mockDownloader writes a sparse file of the configured size
type mockDownloader struct {
	mu        sync.Mutex
	size      int64
	formatIDs []string

	downloadFunc func(ctx context.Context, url, formatID, dir string) (string, error)
}

func (m *mockDownloader) Download(ctx context.Context, url, formatID, dir string) (string, error) {
	m.mu.Lock()
	m.formatIDs = append(m.formatIDs, formatID)
	m.mu.Unlock()

	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, url, formatID, dir)
	}

	path := filepath.Join(dir, "video.mp4")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.Truncate(m.size); err != nil {
		return "", err
	}
	return path, nil
}

// inlinePool runs everything on the caller's goroutine
type inlinePool struct{}

func (inlinePool) Go(_ string, task func(ctx context.Context)) {
	task(context.Background())
}

func (inlinePool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockRepository keeps saved records in memory
type mockRepository struct {
	mu      sync.Mutex
	records []*entities.DeliveryRecord
	enabled bool

	statsFunc func(ctx context.Context, userID int64) (*entities.DeliveryStats, error)
}

func (m *mockRepository) Save(_ context.Context, record *entities.DeliveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockRepository) StatsByUser(ctx context.Context, userID int64) (*entities.DeliveryStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, userID)
	}
	return &entities.DeliveryStats{}, nil
}

func (m *mockRepository) Enabled() bool {
	return m.enabled
}

// mockProducer keeps published events in memory
type mockProducer struct {
	mu     sync.Mutex
	events []*dto.DeliveryEvent
}

func (m *mockProducer) SendDeliveryEvent(_ context.Context, event *dto.DeliveryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

// mockMetrics counts outcomes
type mockMetrics struct {
	mu       sync.Mutex
	outcomes []string
	statuses []string
	pending  int
}

func (m *mockMetrics) RecordLink(string) {}

func (m *mockMetrics) RecordOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockMetrics) RecordDelivery(_, status string, _ int64, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *mockMetrics) SetPendingSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = count
}

// fixture wires a use case against in-memory dependencies
type fixture struct {
	uc         *UseCase
	pipeline   *Pipeline
	sender     *mockSender
	extractor  *mockExtractor
	downloader *mockDownloader
	store      *session.Store
	repository *mockRepository
	producer   *mockProducer
	metrics    *mockMetrics
}

const testMaxMB = 50

func newFixture(tempDir string) *fixture {
	f := &fixture{
		sender:     &mockSender{},
		extractor:  &mockExtractor{},
		downloader: &mockDownloader{size: 10 * 1024 * 1024},
		store:      session.NewStore(0, 0, zerolog.Nop()),
		repository: &mockRepository{},
		producer:   &mockProducer{},
		metrics:    &mockMetrics{},
	}

	cfg := &config.MediaConfig{MaxMB: testMaxMB, TempDir: tempDir}
	f.pipeline = NewPipeline(f.downloader, inlinePool{}, f.repository, f.producer, f.metrics, cfg, zerolog.Nop())
	f.uc = NewUseCase(
		f.extractor,
		f.store,
		inlinePool{},
		f.pipeline,
		ranking.NewRanker(cfg.MaxBytes()),
		f.repository,
		f.metrics,
		cfg,
		zerolog.Nop(),
	)
	f.uc.SetSender(f.sender)
	return f
}
