package domain

import "time"

// User is the domain entity for a bot user. TgID is the external Telegram
// identifier the bot addresses the user by.
type User struct {
	ID        int64
	TgID      int64
	Username  string
	UserSince time.Time
}

// UsageLimit is the per-user daily counter for the AI advice feature.
// Day is nil until the first quota check. RequestsCount is only meaningful
// for the stored Day; a check on a later day resets it first.
type UsageLimit struct {
	UserID        int64
	Day           *time.Time
	RequestsCount int
	Unlimited     bool
}
