package utils

import (
	"context"
	"fmt"
)

// Reward describes a credit earned by chatting
type Reward struct {
	UserID     string
	Amount     int64
	NewBalance int64
}

// Notification renders the announcement posted in the reward channel
func (r Reward) Notification() string {
	return fmt.Sprintf("<@%s> earned $%d %s for chatting! 💸 (New balance: $%d)",
		r.UserID, r.Amount, CurrencyName, r.NewBalance)
}

// RewardTrigger credits users every Threshold qualifying messages
type RewardTrigger struct {
	ledger    *Ledger
	Threshold int
	Amount    int64
}

// NewRewardTrigger creates a trigger with the standard 5 messages / 5 Wenbucks rate
func NewRewardTrigger(ledger *Ledger) *RewardTrigger {
	return &RewardTrigger{
		ledger:    ledger,
		Threshold: MessagesPerReward,
		Amount:    MessageReward,
	}
}

// RecordMessage counts one qualifying message. The returned reward is
// non-nil only when this message crossed the threshold.
func (rt *RewardTrigger) RecordMessage(ctx context.Context, userID string) (*Reward, error) {
	account, rewarded, err := rt.ledger.RecordMessage(ctx, userID, rt.Threshold, rt.Amount)
	if err != nil {
		return nil, fmt.Errorf("record message for %s: %w", userID, err)
	}
	if !rewarded {
		return nil, nil
	}
	return &Reward{
		UserID:     userID,
		Amount:     rt.Amount,
		NewBalance: account.Balance,
	}, nil
}
