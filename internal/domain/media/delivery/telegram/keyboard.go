package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
)

// ButtonsPerRow is how many format buttons share a keyboard row
const ButtonsPerRow = 2

// BuildKeyboard renders a choice prompt as an inline keyboard.
// The cancel button always sits alone on the last row.
func BuildKeyboard(prompt *dto.ChoicePrompt) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(prompt.Options)/ButtonsPerRow+2)

	var row []models.InlineKeyboardButton
	for _, opt := range prompt.Options {
		row = append(row, models.InlineKeyboardButton{
			Text:         opt.Label,
			CallbackData: dto.EncodeSelect(prompt.SelectionID, opt.Token),
		})
		if len(row) == ButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         prompt.CancelLabel,
		CallbackData: dto.EncodeCancel(prompt.SelectionID),
	}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
