package buissines

import (
	"fmt"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/consts"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
)

// BuildPrompt turns a pending selection into the picker the transport renders
func BuildPrompt(sel entities.PendingSelection, maxMB int) *dto.ChoicePrompt {
	prompt := &dto.ChoicePrompt{
		SelectionID: sel.SelectionID,
		Text:        fmt.Sprintf(consts.MsgChoicePrompt, sel.Title, maxMB),
		Options:     make([]dto.ChoiceOption, 0, len(sel.Tokens)),
		CancelLabel: consts.MsgCancelButton,
	}

	for _, token := range sel.Tokens {
		prompt.Options = append(prompt.Options, dto.ChoiceOption{
			Token: token,
			Label: ButtonLabel(sel.Choices[token]),
		})
	}
	return prompt
}

// ButtonLabel renders "<size>, <height>p", or "<height>p (size?)" when the size is unknown
func ButtonLabel(c entities.Candidate) string {
	if !c.SizeKnown {
		return fmt.Sprintf(consts.MsgUnknownSizeLabel, c.Height)
	}
	return fmt.Sprintf(consts.MsgSizeLabel, FormatSize(c.Size), c.Height)
}
