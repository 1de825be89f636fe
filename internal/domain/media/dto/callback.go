package dto

import "strings"

// Callback data prefixes. Telegram limits callback data to 64 bytes.
const (
	CallbackSelect = "sel"
	CallbackCancel = "cancel"

	callbackSep = ":"
)

// CallbackKind tells what a button tap asks for
type CallbackKind int

const (
	CallbackKindUnknown CallbackKind = iota
	CallbackKindSelect
	CallbackKindCancel
)

// CallbackAction is decoded callback data
type CallbackAction struct {
	Kind        CallbackKind
	SelectionID string
	Token       string
}

// EncodeSelect builds callback data for a format button
func EncodeSelect(selectionID, token string) string {
	return CallbackSelect + callbackSep + selectionID + callbackSep + token
}

// EncodeCancel builds callback data for the cancel button
func EncodeCancel(selectionID string) string {
	return CallbackCancel + callbackSep + selectionID
}

// ParseCallback decodes callback data. Anything malformed is CallbackKindUnknown.
func ParseCallback(data string) CallbackAction {
	parts := strings.Split(data, callbackSep)

	switch {
	case len(parts) == 3 && parts[0] == CallbackSelect && parts[1] != "" && parts[2] != "":
		return CallbackAction{Kind: CallbackKindSelect, SelectionID: parts[1], Token: parts[2]}
	case len(parts) == 2 && parts[0] == CallbackCancel && parts[1] != "":
		return CallbackAction{Kind: CallbackKindCancel, SelectionID: parts[1]}
	default:
		return CallbackAction{Kind: CallbackKindUnknown}
	}
}
