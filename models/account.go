package models

// Account is a user's Wenbucks wallet.
// The JSON field names match the snapshot file the bot has always written.
type Account struct {
	MessageCount int   `json:"messages"`
	Balance      int64 `json:"balance"`
}
