package consts

// User-facing replies. Templates with verbs are filled with fmt.Sprintf.
const (
	MsgStart = "👋 Hi! Send me a YouTube, TikTok or Instagram link.\n\n" +
		"Limit: max %dMB.\n" +
		"- YouTube: you pick the format.\n" +
		"- TikTok/Instagram: the best fitting format is picked for you."

	MsgHelp = "📚 How to use:\n" +
		"1) Send a link.\n" +
		"2) For YouTube, tap one of the format buttons.\n" +
		"3) For TikTok/Instagram the bot sends the best mp4 within %dMB.\n\n" +
		"Note: videos are never re-encoded.\n\n" +
		"/stats - your download history"

	MsgStats        = "📊 Delivered videos: %d\nTotal size: %s"
	MsgStatsEmpty   = "📊 You have not downloaded anything yet."
	MsgStatsOffline = "📊 Download history is not enabled on this bot."

	MsgUnknownPlatform  = "This link is not supported. Send a YouTube, TikTok or Instagram link."
	MsgExtractionFailed = "Failed to read the link: %s"

	MsgNoManualFormat   = "No mp4 within %dMB was found on %s.\nThe video may be too large."
	MsgNoAutoFormat     = "No suitable mp4 within %dMB was found for %s.\nThe video may be too large, private or require login."
	MsgChoicePrompt     = "🎬 %s\nChoose a format (max %dMB):"
	MsgDefaultTitle     = "%s video"
	MsgCancelButton     = "❌ Cancel"
	MsgUnknownSizeLabel = "%dp (size?)"
	MsgSizeLabel        = "%s, %dp"

	MsgSessionNotFound = "Session not found. Send the YouTube link again."
	MsgFormatNotFound  = "Format not found. Send the link again."
	MsgDownloading     = "Downloading…"
	MsgCancelled       = "Cancelled."
	MsgUnknownAction   = "Unknown action."

	MsgCaption       = "%s downloaded: %s"
	MsgSizeExceeded  = "The video turned out to be %s, the limit is %dMB. Pick a lower format."
	MsgDeliveryError = "Error: %s"
)
