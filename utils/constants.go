package utils

import "time"

// General Configuration
const (
	BotColor               = 0x5865F2
	DefaultRewardChannelID = "1395934262942892102"
	CommandPrefix          = "$"
)

// Economy
const (
	CurrencyName       = "Wenbucks"
	MessagesPerReward  = 5
	MessageReward      = 5
	WenbucksFileName   = "wenbucks.json"
	WenbucksSQLiteName = "wenbucks.db"

	// MaxBet bounds a single wager so every payout fits in int64
	MaxBet = 1_000_000_000_000
)

// Card System
var (
	CardRankOrder = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
	CardRanks     = map[Rank]int{
		"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
		"J": 10, "Q": 10, "K": 10, "A": 11,
	}
)

// Blackjack Game Constants
const (
	BlackjackTarget    = 21
	DealerStandValue   = 17
	BlackjackPayoutNum = 3 // 3:2
	BlackjackPayoutDen = 2
)

// Session lifecycle
const (
	SessionCooldown      = 10 * time.Second
	SessionTTL           = 15 * time.Minute
	SessionSweepInterval = time.Minute
)

// Component custom IDs
const (
	ButtonBlackjack = "blackjack"
	ButtonRideBus   = "ridebus"
	ButtonHit       = "hit"
	ButtonStand     = "stand"
)

// UI Messages
const (
	PlaceBetFirstMessage = "You need to place a bet first! Type an amount in chat."
	GameCleanupMessage   = "Your blackjack game was removed due to inactivity. You have forfeited your bet of $%d %s."
)
