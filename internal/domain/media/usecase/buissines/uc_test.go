package buissines

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/consts"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
	mediaerrors "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/errors"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/platform"
)

const (
	chatID = int64(10)
	userID = int64(20)

	youtubeURL = "https://www.youtube.com/watch?v=abc"
	tiktokURL  = "https://www.tiktok.com/@user/video/123"
)

const mb = int64(1024 * 1024)

func mp4(id string, height int, size int64) entities.Candidate {
	return entities.Candidate{
		FormatID:  id,
		Container: "mp4",
		Height:    height,
		HasVideo:  true,
		HasAudio:  true,
		SizeKnown: true,
		Size:      size,
	}
}

func youtubeInfo() *entities.MediaInfo {
	return &entities.MediaInfo{
		ID:    "abc",
		Title: "Clip",
		Candidates: []entities.Candidate{
			mp4("18", 360, 8*mb),
			mp4("22", 720, 30*mb),
			mp4("37", 1080, 120*mb),
		},
	}
}

func linkRequest(text string) *dto.LinkRequest {
	return &dto.LinkRequest{ChatID: chatID, UserID: userID, Text: text}
}

func (f *fixture) withInfo(info *entities.MediaInfo) {
	f.extractor.extractFunc = func(context.Context, string) (*entities.MediaInfo, error) {
		return info, nil
	}
}

func (f *fixture) tap(messageID int, data string) error {
	return f.uc.HandleCallback(context.Background(), &dto.CallbackRequest{
		ChatID:    chatID,
		UserID:    userID,
		MessageID: messageID,
		Data:      data,
	})
}

func TestUseCase_HandleStart(t *testing.T) {
	f := newFixture(t.TempDir())

	resp, err := f.uc.HandleStart(context.Background(), &dto.StartCommandRequest{UserID: userID})
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "max 50MB")
}

func TestUseCase_HandleStats(t *testing.T) {
	t.Run("offline", func(t *testing.T) {
		f := newFixture(t.TempDir())

		resp, err := f.uc.HandleStats(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, consts.MsgStatsOffline, resp.Message)
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t.TempDir())
		f.repository.enabled = true

		resp, err := f.uc.HandleStats(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, consts.MsgStatsEmpty, resp.Message)
	})

	t.Run("totals", func(t *testing.T) {
		f := newFixture(t.TempDir())
		f.repository.enabled = true
		f.repository.statsFunc = func(context.Context, int64) (*entities.DeliveryStats, error) {
			return &entities.DeliveryStats{Count: 3, Bytes: 30 * mb}, nil
		}

		resp, err := f.uc.HandleStats(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(consts.MsgStats, 3, "30 MiB"), resp.Message)
	})

	t.Run("error", func(t *testing.T) {
		f := newFixture(t.TempDir())
		f.repository.enabled = true
		f.repository.statsFunc = func(context.Context, int64) (*entities.DeliveryStats, error) {
			return nil, errors.New("connection refused")
		}

		_, err := f.uc.HandleStats(context.Background(), userID)
		require.Error(t, err)
	})
}

func TestUseCase_HandleLink_NoURL(t *testing.T) {
	f := newFixture(t.TempDir())

	err := f.uc.HandleLink(context.Background(), linkRequest("hello there"))
	require.NoError(t, err)
	assert.Empty(t, f.sender.messages)
	assert.Empty(t, f.sender.actions)
}

func TestUseCase_HandleLink_UnknownPlatform(t *testing.T) {
	f := newFixture(t.TempDir())

	err := f.uc.HandleLink(context.Background(), linkRequest("look https://vimeo.com/1"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, mediaerrors.ErrUnknownPlatform))
	assert.Equal(t, []string{consts.MsgUnknownPlatform}, f.sender.messages)
	assert.Empty(t, f.sender.actions)
}

func TestUseCase_HandleLink_ExtractionFailed(t *testing.T) {
	f := newFixture(t.TempDir())
	f.extractor.extractFunc = func(context.Context, string) (*entities.MediaInfo, error) {
		return nil, errors.New("Video unavailable")
	}

	err := f.uc.HandleLink(context.Background(), linkRequest(youtubeURL))
	require.Error(t, err)

	assert.True(t, errors.Is(err, mediaerrors.ErrExtractionFailed))
	require.Len(t, f.sender.messages, 1)
	assert.Contains(t, f.sender.messages[0], "Video unavailable")
	assert.Equal(t, 0, f.store.Count())
}

func TestUseCase_HandleLink_ManualPrompt(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())

	err := f.uc.HandleLink(context.Background(), linkRequest("watch "+youtubeURL+" now"))
	require.NoError(t, err)

	require.Len(t, f.sender.prompts, 1)
	prompt := f.sender.prompts[0]
	assert.Equal(t, fmt.Sprintf(consts.MsgChoicePrompt, "Clip", testMaxMB), prompt.Text)
	assert.Equal(t, consts.MsgCancelButton, prompt.CancelLabel)
	assert.Equal(t, []dto.ChoiceOption{
		{Token: "f0", Label: "8.0 MiB, 360p"},
		{Token: "f1", Label: "30 MiB, 720p"},
	}, prompt.Options)

	sel, ok := f.store.Get(chatID, userID)
	require.True(t, ok)
	assert.Equal(t, prompt.SelectionID, sel.SelectionID)
	assert.Equal(t, youtubeURL, sel.URL)
	assert.Equal(t, platform.YouTube, sel.Platform)
	assert.Equal(t, 1, f.metrics.pending)
	assert.Empty(t, f.sender.videos)
}

func TestUseCase_HandleLink_DefaultTitle(t *testing.T) {
	f := newFixture(t.TempDir())
	info := youtubeInfo()
	info.Title = ""
	f.withInfo(info)

	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))

	sel, ok := f.store.Get(chatID, userID)
	require.True(t, ok)
	assert.Equal(t, "YouTube video", sel.Title)
}

func TestUseCase_HandleLink_ManualNoEligible(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(&entities.MediaInfo{
		Title:      "Huge",
		Candidates: []entities.Candidate{mp4("37", 1080, 120*mb)},
	})

	err := f.uc.HandleLink(context.Background(), linkRequest(youtubeURL))
	require.Error(t, err)

	assert.True(t, errors.Is(err, mediaerrors.ErrNoEligibleFormat))
	assert.Equal(t, []string{fmt.Sprintf(consts.MsgNoManualFormat, testMaxMB, "YouTube")}, f.sender.messages)
	assert.Empty(t, f.sender.prompts)
	assert.Equal(t, 0, f.store.Count())
}

func TestUseCase_HandleLink_PromptSendFails(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	f.sender.sendPromptFunc = func(context.Context, int64, *dto.ChoicePrompt) (int, error) {
		return 0, errors.New("bot was blocked by the user")
	}

	err := f.uc.HandleLink(context.Background(), linkRequest(youtubeURL))
	require.Error(t, err)
	assert.Equal(t, 0, f.store.Count())
}

func TestUseCase_HandleLink_AutomaticDelivery(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(&entities.MediaInfo{
		Candidates: []entities.Candidate{
			mp4("a", 720, 12*mb),
			mp4("b", 1080, 40*mb),
			mp4("c", 1080, 35*mb),
			mp4("d", 2160, 90*mb),
		},
	})

	err := f.uc.HandleLink(context.Background(), linkRequest(tiktokURL))
	require.NoError(t, err)

	assert.Equal(t, []string{"c"}, f.downloader.formatIDs)
	require.Len(t, f.sender.videos, 1)
	assert.Empty(t, f.sender.prompts)
	assert.Equal(t, 0, f.store.Count())
}

func TestUseCase_HandleLink_AutomaticNoEligible(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(&entities.MediaInfo{
		Candidates: []entities.Candidate{
			{FormatID: "v", Container: "mp4", Height: 720, HasVideo: true},
			{FormatID: "w", Container: "webm", Height: 720, HasVideo: true, HasAudio: true},
		},
	})

	err := f.uc.HandleLink(context.Background(), linkRequest("https://www.instagram.com/reel/xyz/"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, mediaerrors.ErrNoEligibleFormat))
	assert.Equal(t, []string{fmt.Sprintf(consts.MsgNoAutoFormat, testMaxMB, "Instagram")}, f.sender.messages)
	assert.Empty(t, f.downloader.formatIDs)
}

func TestUseCase_HandleLink_OversizedDownload(t *testing.T) {
	f := newFixture(t.TempDir())
	f.downloader.size = 52 * mb
	f.withInfo(&entities.MediaInfo{
		Candidates: []entities.Candidate{
			{FormatID: "u", Container: "mp4", Height: 720, HasVideo: true, HasAudio: true},
		},
	})

	err := f.uc.HandleLink(context.Background(), linkRequest(tiktokURL))
	require.Error(t, err)

	assert.True(t, errors.Is(err, mediaerrors.ErrSizeExceeded))
	assert.Empty(t, f.sender.videos)
	assert.Equal(t, []string{fmt.Sprintf(consts.MsgSizeExceeded, "52 MiB", testMaxMB)}, f.sender.messages)
}

func TestUseCase_Selection_DeliversChosenFormat(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))

	prompt := f.sender.prompts[0]
	err := f.tap(100, dto.EncodeSelect(prompt.SelectionID, "f1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"22"}, f.downloader.formatIDs)
	require.Len(t, f.sender.videos, 1)
	assert.Equal(t, "YouTube downloaded: 10 MiB", f.sender.videos[0].caption)
	require.Len(t, f.sender.edits, 1)
	assert.Equal(t, editedMessage{chatID: chatID, messageID: 100, text: consts.MsgDownloading}, f.sender.edits[0])
	assert.Equal(t, 0, f.store.Count())
	assert.Equal(t, 0, f.metrics.pending)
}

func TestUseCase_Selection_SecondTapFindsNothing(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))

	data := dto.EncodeSelect(f.sender.prompts[0].SelectionID, "f0")
	require.NoError(t, f.tap(100, data))

	err := f.tap(100, data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaerrors.ErrSessionNotFound))
	assert.Len(t, f.sender.videos, 1)
	assert.Equal(t, consts.MsgSessionNotFound, f.sender.edits[len(f.sender.edits)-1].text)
}

func TestUseCase_Selection_StalePromptIgnored(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())

	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))
	stale := f.sender.prompts[0].SelectionID
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))
	fresh := f.sender.prompts[1].SelectionID
	require.NotEqual(t, stale, fresh)

	err := f.tap(100, dto.EncodeSelect(stale, "f0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaerrors.ErrSessionNotFound))
	assert.Empty(t, f.downloader.formatIDs)

	sel, ok := f.store.Get(chatID, userID)
	require.True(t, ok)
	assert.Equal(t, fresh, sel.SelectionID)
}

func TestUseCase_Selection_UnknownToken(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))

	err := f.tap(100, dto.EncodeSelect(f.sender.prompts[0].SelectionID, "f9"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, mediaerrors.ErrSessionNotFound))
	assert.Equal(t, consts.MsgFormatNotFound, f.sender.edits[0].text)
	assert.Equal(t, 1, f.store.Count())
}

func TestUseCase_Selection_OtherUser(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))

	err := f.uc.HandleCallback(context.Background(), &dto.CallbackRequest{
		ChatID:    chatID,
		UserID:    userID + 1,
		MessageID: 100,
		Data:      dto.EncodeSelect(f.sender.prompts[0].SelectionID, "f0"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaerrors.ErrSessionNotFound))
	assert.Equal(t, 1, f.store.Count())
}

func TestUseCase_Cancel(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))
	selectionID := f.sender.prompts[0].SelectionID

	require.NoError(t, f.tap(100, dto.EncodeCancel(selectionID)))
	assert.Equal(t, consts.MsgCancelled, f.sender.edits[0].text)
	assert.Equal(t, 0, f.store.Count())

	err := f.tap(100, dto.EncodeSelect(selectionID, "f0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaerrors.ErrSessionNotFound))
	assert.Empty(t, f.downloader.formatIDs)
}

func TestUseCase_CancelAfterSelection(t *testing.T) {
	f := newFixture(t.TempDir())
	f.withInfo(youtubeInfo())
	require.NoError(t, f.uc.HandleLink(context.Background(), linkRequest(youtubeURL)))
	selectionID := f.sender.prompts[0].SelectionID

	require.NoError(t, f.tap(100, dto.EncodeSelect(selectionID, "f0")))

	err := f.tap(100, dto.EncodeCancel(selectionID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaerrors.ErrSessionNotFound))
	assert.Len(t, f.sender.videos, 1)
}

func TestUseCase_UnknownCallback(t *testing.T) {
	f := newFixture(t.TempDir())

	err := f.tap(100, "garbage")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaerrors.ErrUnknownAction))
	assert.Equal(t, consts.MsgUnknownAction, f.sender.edits[0].text)
}

func TestUseCase_CallbackWithoutMessageRepliesInstead(t *testing.T) {
	f := newFixture(t.TempDir())

	err := f.tap(0, dto.EncodeCancel("missing"))
	require.Error(t, err)
	assert.Empty(t, f.sender.edits)
	assert.Equal(t, []string{consts.MsgSessionNotFound}, f.sender.messages)
}

func TestUseCase_NoSender(t *testing.T) {
	f := newFixture(t.TempDir())
	f.uc.sender = nil

	err := f.uc.HandleLink(context.Background(), linkRequest(youtubeURL))
	assert.True(t, errors.Is(err, mediaerrors.ErrSenderNotSet))
}

func TestBuildPrompt_UnknownSizeLabel(t *testing.T) {
	sel := entities.PendingSelection{
		SelectionID: "abc",
		Title:       "Clip",
		Tokens:      []string{Token(0)},
		Choices: map[string]entities.Candidate{
			Token(0): {FormatID: "18", Container: "mp4", Height: 360, HasVideo: true, HasAudio: true},
		},
	}

	prompt := BuildPrompt(sel, testMaxMB)
	require.Len(t, prompt.Options, 1)
	assert.Equal(t, "360p (size?)", prompt.Options[0].Label)
	assert.Equal(t, "f0", prompt.Options[0].Token)
}
