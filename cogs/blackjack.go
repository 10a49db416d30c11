package cogs

import (
	"fmt"

	"wenbucks-go/games/blackjack"
	"wenbucks-go/utils"

	"github.com/bwmarrin/discordgo"
)

// renderGame builds the table view for a round. The dealer's second card
// stays hidden until the round is settled.
func renderGame(game *blackjack.Game) Reply {
	return Reply{
		Content:    fmt.Sprintf("<@%s>", game.UserID),
		Embed:      createGameEmbed(game),
		Components: blackjackComponents(game.IsOver()),
	}
}

// createGameEmbed creates the game embed
func createGameEmbed(game *blackjack.Game) *discordgo.MessageEmbed {
	player := game.PlayerHand()
	dealer := game.DealerHand()

	var dealerCards string
	if game.IsOver() {
		dealerCards = fmt.Sprintf("%s\n**Value: %d**", utils.FormatHand(dealer), game.DealerValue())
	} else if len(dealer) > 0 {
		// Hide dealer hole card
		dealerCards = fmt.Sprintf("%s, ?", dealer[0])
	}

	embed := utils.CreateBrandedEmbed("🃏 Blackjack", "", utils.BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "💰 Bet",
			Value:  utils.FormatWenbucks(game.Bet()),
			Inline: true,
		},
		{
			Name:   "🎯 Your Hand",
			Value:  fmt.Sprintf("%s\n**Value: %d**", utils.FormatHand(player), game.PlayerValue()),
			Inline: true,
		},
		{
			Name:   "🏠 Dealer",
			Value:  dealerCards,
			Inline: true,
		},
	}

	if !game.IsOver() {
		embed.Description = "Hit or stand?"
		return embed
	}

	outcome := game.Outcome()
	resultValue := string(outcome)
	switch {
	case outcome.PlayerWon():
		resultValue += fmt.Sprintf("\n**Payout: %s** (profit %s)",
			utils.FormatWenbucks(game.Payout()), utils.FormatWenbucks(game.Profit()))
		embed.Color = utils.ColorWin
	case outcome == blackjack.OutcomePush:
		resultValue += fmt.Sprintf("\n**Bet returned: %s**", utils.FormatWenbucks(game.Payout()))
		embed.Color = utils.ColorPush
	default:
		resultValue += fmt.Sprintf("\n**Lost: %s**", utils.FormatWenbucks(game.Bet()))
		embed.Color = utils.ColorLoss
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "🎊 Result",
		Value:  resultValue,
		Inline: false,
	})
	return embed
}

// blackjackComponents returns the hit/stand row. Settled rounds keep the
// buttons but disable them.
func blackjackComponents(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: utils.ButtonHit,
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					Disabled: disabled,
					Emoji:    &discordgo.ComponentEmoji{Name: "🃏"},
				},
				discordgo.Button{
					CustomID: utils.ButtonStand,
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					Disabled: disabled,
					Emoji:    &discordgo.ComponentEmoji{Name: "✋"},
				},
			},
		},
	}
}

// gameSelectComponents returns the $casino game picker
func gameSelectComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: utils.ButtonBlackjack,
					Label:    "Blackjack",
					Style:    discordgo.PrimaryButton,
				},
				discordgo.Button{
					CustomID: utils.ButtonRideBus,
					Label:    "Ride the Bus",
					Style:    discordgo.SecondaryButton,
				},
			},
		},
	}
}
