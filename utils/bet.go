package utils

import (
	"strconv"
	"strings"
)

// ParseBet parses a bet typed in chat. Surrounding whitespace, a leading
// "$" and thousands separators are accepted; anything else that is not a
// whole number between 1 and MaxBet is rejected with ErrInvalidBet.
func ParseBet(betStr string) (int64, error) {
	betStr = strings.TrimSpace(betStr)
	betStr = strings.TrimPrefix(betStr, "$")
	betStr = strings.ReplaceAll(betStr, ",", "")

	if betStr == "" {
		return 0, ErrInvalidBet
	}
	for _, r := range betStr {
		if r < '0' || r > '9' {
			return 0, ErrInvalidBet
		}
	}

	bet, err := strconv.ParseInt(betStr, 10, 64)
	if err != nil || bet <= 0 || bet > MaxBet {
		return 0, ErrInvalidBet
	}
	return bet, nil
}
