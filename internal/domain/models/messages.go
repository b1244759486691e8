package models

// Message levels as the ledger emits them.
const (
	LevelSuccess      = "SUCCESS"
	LevelWarning      = "WARNING"
	LevelError        = "ERROR"
	LevelInfo         = "INFO"
	LevelAnnouncement = "ANNOUNCEMENT"
)

// Display durations; the concrete milliseconds belong to the rendering layer.
const (
	DisplayShort     = "DISPLAY_TIME_SHORT"
	DisplayTen       = "DISPLAY_TIME_TEN"
	DisplayLong      = "DISPLAY_TIME_LONG"
	DisplayPermanent = "DISPLAY_TIME_PARAMENT"
)

// ServerMessage is a leveled message returned alongside success or error
// responses. It is always surfaced to the user regardless of HTTP outcome.
type ServerMessage struct {
	Level           string `json:"level"`
	Message         string `json:"message"`
	DisplayDuration string `json:"displayDuration"`
}
