package utils

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-12,500", FormatNumber(-12500))
	assert.Equal(t, "-5", FormatNumber(-5))
}

func TestFormatWenbucks(t *testing.T) {
	assert.Equal(t, "$5", FormatWenbucks(5))
	assert.Equal(t, "$2,500", FormatWenbucks(2500))
	assert.Equal(t, "-$15", FormatWenbucks(-15))
}

func TestCreateBrandedEmbed(t *testing.T) {
	embed := CreateBrandedEmbed("Title", "Body", ColorWin)
	assert.Equal(t, "Title", embed.Title)
	assert.Equal(t, "Body", embed.Description)
	assert.Equal(t, ColorWin, embed.Color)
	if assert.NotNil(t, embed.Footer) {
		assert.Contains(t, embed.Footer.Text, CurrencyName)
	}
	assert.NotEmpty(t, embed.Timestamp)
}

func TestBotLogfTagsArea(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	BotLogf("BLACKJACK", "table for %s expired", "alice")
	assert.Contains(t, buf.String(), "[BLACKJACK] table for alice expired")
}
