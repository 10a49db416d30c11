package utils

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	ColorWin  = 0x00ff00
	ColorPush = 0xffff00
	ColorLoss = 0xff0000
)

// CreateBrandedEmbed creates a basic embed with bot branding
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: CurrencyName + " Casino",
		},
	}
}

// FormatWenbucks renders an amount as "$1,234"
func FormatWenbucks(amount int64) string {
	if amount < 0 {
		return "-$" + FormatNumber(-amount)
	}
	return "$" + FormatNumber(amount)
}

// FormatNumber adds thousands separators
func FormatNumber(num int64) string {
	str := strconv.FormatInt(num, 10)
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")
	if len(str) <= 3 {
		if negative {
			return "-" + str
		}
		return str
	}

	var result strings.Builder
	if negative {
		result.WriteString("-")
	}
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(r)
	}

	return result.String()
}

// BotLogf logs a cog or game event tagged with its area
func BotLogf(area string, format string, args ...interface{}) {
	log.Printf("[%s] %s", area, fmt.Sprintf(format, args...))
}
