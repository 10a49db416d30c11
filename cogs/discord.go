package cogs

import (
	"context"
	"log"
	"strings"
	"time"

	"wenbucks-go/utils"

	"github.com/bwmarrin/discordgo"
)

// handlerTimeout bounds the persistence work done for one Discord event
const handlerTimeout = 10 * time.Second

// RegisterCasinoCommands returns the slash commands the casino answers
func RegisterCasinoCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your " + utils.CurrencyName + " balance",
		},
	}
}

// OnMessageCreate counts chat activity, answers prefix commands and takes
// typed bets
func (c *Casino) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	userID := m.Author.ID
	if _, err := c.RecordActivity(ctx, userID); err != nil {
		log.Printf("Failed to record message from %s: %v", userID, err)
	}

	content := strings.TrimSpace(m.Content)
	switch content {
	case utils.CommandPrefix + "casino":
		sendReply(s, m.ChannelID, c.Menu())
		return
	case utils.CommandPrefix + "balance":
		sendReply(s, m.ChannelID, c.Balance(userID))
		return
	}

	reply, handled, err := c.PlaceBet(ctx, userID, m.ChannelID, content)
	if err != nil {
		log.Printf("Error placing bet for %s: %v", userID, err)
	}
	if !handled {
		return
	}

	msg := sendReply(s, m.ChannelID, reply)
	if msg != nil && reply.Embed != nil {
		c.SetPromptMessage(userID, msg.ID)
	}
}

// OnInteractionCreate routes slash commands and button presses
func (c *Casino) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	var reply Reply
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name != "balance" {
			return
		}
		reply = c.Balance(userID)
		reply.Ephemeral = true
	case discordgo.InteractionMessageComponent:
		var ok bool
		reply, ok = c.handleComponent(i, userID)
		if !ok {
			return
		}
	default:
		return
	}

	if err := s.InteractionRespond(i.Interaction, interactionResponse(reply)); err != nil {
		log.Printf("Failed to respond to interaction from %s: %v", userID, err)
	}
}

func (c *Casino) handleComponent(i *discordgo.InteractionCreate, userID string) (Reply, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	var messageID string
	if i.Message != nil {
		messageID = i.Message.ID
	}

	var (
		reply Reply
		err   error
	)
	customID := i.MessageComponentData().CustomID
	switch customID {
	case utils.ButtonBlackjack:
		reply = c.StartBlackjack(userID, i.ChannelID)
	case utils.ButtonRideBus:
		reply = c.RideTheBus()
	case utils.ButtonHit:
		reply, err = c.Hit(ctx, userID, messageID)
	case utils.ButtonStand:
		reply, err = c.Stand(ctx, userID, messageID)
	default:
		return Reply{}, false
	}

	if err != nil {
		log.Printf("Error handling blackjack action %s for %s: %v", customID, userID, err)
	}
	return reply, true
}

// interactionResponse converts a reply into the matching interaction
// callback. Updates replace the message holding the pressed button.
func interactionResponse(reply Reply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content:    reply.Content,
		Components: reply.Components,
	}
	if reply.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{reply.Embed}
	}

	if reply.Update {
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: data,
		}
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

// messageSend converts a reply into a plain channel message
func messageSend(reply Reply) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content:    reply.Content,
		Components: reply.Components,
	}
	if reply.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{reply.Embed}
	}
	return send
}

func sendReply(s *discordgo.Session, channelID string, reply Reply) *discordgo.Message {
	msg, err := s.ChannelMessageSendComplex(channelID, messageSend(reply))
	if err != nil {
		log.Printf("Failed to send message to channel %s: %v", channelID, err)
		return nil
	}
	return msg
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
