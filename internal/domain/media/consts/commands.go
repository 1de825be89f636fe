// Package consts contains constants for the media domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart = Command{Name: "start", Description: "Start the bot"}
	CommandHelp  = Command{Name: "help", Description: "Show help message"}
	CommandStats = Command{Name: "stats", Description: "Show your download history"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandStats,
}

// Chat actions shown while work is in progress
const (
	ChatActionTyping      = "typing"
	ChatActionUploadVideo = "upload_video"
)
