package cogs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"wenbucks-go/games/blackjack"
	"wenbucks-go/utils"

	"github.com/bwmarrin/discordgo"
)

// Notifier posts plain messages to a channel. *discordgo.Session satisfies it.
type Notifier interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Reply is what the bot answers with, independent of how it is delivered
type Reply struct {
	Content    string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
	// Update is set when the reply replaces the message holding the pressed button
	Update bool
}

// CasinoOptions configures a Casino
type CasinoOptions struct {
	RewardChannelID string
	Cooldown        time.Duration
	SessionTTL      time.Duration
	// NewDeck builds the card source for each round; defaults to a random deck
	NewDeck func() utils.Deck
}

// Casino owns the ledger, the reward trigger and the blackjack tables, and
// turns chat events into state transitions.
type Casino struct {
	ledger  *utils.Ledger
	rewards *utils.RewardTrigger
	tables  *utils.SessionDirectory[*blackjack.Game]
	notify  Notifier
	newDeck func() utils.Deck

	rewardChannelID string

	// tableMutex serializes every blackjack transition
	tableMutex sync.Mutex

	sweepTicker *time.Ticker
	done        chan struct{}
}

// NewCasino wires a casino around an already loaded ledger
func NewCasino(ledger *utils.Ledger, notify Notifier, opts CasinoOptions) *Casino {
	if opts.NewDeck == nil {
		opts.NewDeck = func() utils.Deck { return utils.NewRandomDeck() }
	}
	if opts.RewardChannelID == "" {
		opts.RewardChannelID = utils.DefaultRewardChannelID
	}
	return &Casino{
		ledger:          ledger,
		rewards:         utils.NewRewardTrigger(ledger),
		tables:          utils.NewSessionDirectory[*blackjack.Game](opts.Cooldown, opts.SessionTTL),
		notify:          notify,
		newDeck:         opts.NewDeck,
		rewardChannelID: opts.RewardChannelID,
	}
}

// Tables exposes the session directory
func (c *Casino) Tables() *utils.SessionDirectory[*blackjack.Game] {
	return c.tables
}

// RecordActivity counts a chat message and announces any reward in the
// reward channel
func (c *Casino) RecordActivity(ctx context.Context, userID string) (*utils.Reward, error) {
	reward, err := c.rewards.RecordMessage(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reward != nil && c.notify != nil {
		if _, err := c.notify.ChannelMessageSend(c.rewardChannelID, reward.Notification()); err != nil {
			utils.BotLogf("REWARD", "failed to announce reward for %s: %v", userID, err)
		}
	}
	return reward, nil
}

// Menu is the game-select prompt shown for $casino
func (c *Casino) Menu() Reply {
	return Reply{
		Content:    "🎰 **Welcome to the casino!** Pick a game:",
		Components: gameSelectComponents(),
	}
}

// Balance shows the user's wallet
func (c *Casino) Balance(userID string) Reply {
	account := c.ledger.GetOrCreate(userID)
	return Reply{
		Content: fmt.Sprintf("💰 <@%s> You have **%s** %s. (%d/%d messages toward your next reward)",
			userID, utils.FormatWenbucks(account.Balance), utils.CurrencyName,
			account.MessageCount, c.rewards.Threshold),
	}
}

// RideTheBus is a placeholder until the game exists
func (c *Casino) RideTheBus() Reply {
	return Reply{Content: "🚌 Ride the Bus is coming soon!", Ephemeral: true}
}

// StartBlackjack opens a table for the user and asks for a bet
func (c *Casino) StartBlackjack(userID, channelID string) Reply {
	c.tableMutex.Lock()
	defer c.tableMutex.Unlock()

	_, err := c.tables.Start(userID, func() *blackjack.Game {
		return blackjack.NewGame(userID, channelID, c.ledger, c.newDeck())
	})
	switch {
	case errors.Is(err, utils.ErrSessionActive):
		return rejection("You already have an active blackjack game!")
	case errors.Is(err, utils.ErrCooldownActive):
		wait := c.tables.CooldownRemaining(userID).Round(time.Second)
		if wait < time.Second {
			wait = time.Second
		}
		return rejection(fmt.Sprintf("Please wait %s before starting another game.", wait))
	case err != nil:
		return rejection("Could not start a game. Please try again.")
	}

	utils.BotLogf("BLACKJACK", "started table for %s in %s", userID, channelID)
	return Reply{
		Content: fmt.Sprintf("🃏 <@%s> How much do you want to bet? You have **%s** %s. Type an amount in chat.",
			userID, utils.FormatWenbucks(c.ledger.Balance(userID)), utils.CurrencyName),
	}
}

// PlaceBet treats a chat message as bet input when the user has a table
// waiting for a bet in that channel. handled is false when the message is
// not meant for a table.
func (c *Casino) PlaceBet(ctx context.Context, userID, channelID, text string) (reply Reply, handled bool, err error) {
	c.tableMutex.Lock()
	defer c.tableMutex.Unlock()

	game, exists := c.tables.Get(userID)
	if !exists || game.State() != blackjack.AwaitingBet || game.ChannelID != channelID {
		return Reply{}, false, nil
	}

	amount, err := utils.ParseBet(text)
	if err != nil {
		return Reply{Content: fmt.Sprintf("<@%s> Please type a whole number bet, like `10`.", userID)}, true, nil
	}

	err = game.PlaceBet(ctx, amount)
	if game.IsOver() {
		if finishErr := c.finish(ctx, game); err == nil {
			err = finishErr
		}
	} else {
		c.tables.Touch(userID)
	}

	if err != nil {
		if errors.Is(err, utils.ErrInsufficientBalance) {
			return Reply{Content: fmt.Sprintf("<@%s> You only have **%s** %s. Please enter a smaller bet.",
				userID, utils.FormatWenbucks(c.ledger.Balance(userID)), utils.CurrencyName)}, true, nil
		}
		if utils.IsUserError(err) {
			return Reply{Content: fmt.Sprintf("<@%s> %s", userID, userMessage(err))}, true, nil
		}
		if !game.IsOver() {
			return Reply{Content: "❌ Could not take your bet. Please try again."}, true, err
		}
	}

	return renderGame(game), true, err
}

// Hit draws a card for the user's round
func (c *Casino) Hit(ctx context.Context, userID, messageID string) (Reply, error) {
	return c.act(ctx, userID, messageID, (*blackjack.Game).Hit)
}

// Stand settles the user's round
func (c *Casino) Stand(ctx context.Context, userID, messageID string) (Reply, error) {
	return c.act(ctx, userID, messageID, (*blackjack.Game).Stand)
}

func (c *Casino) act(ctx context.Context, userID, messageID string, action func(*blackjack.Game, context.Context) error) (Reply, error) {
	c.tableMutex.Lock()
	defer c.tableMutex.Unlock()

	game, exists := c.tables.Get(userID)
	if !exists {
		return rejection(userMessage(utils.ErrNoSession)), nil
	}
	if game.MessageID != "" && messageID != "" && game.MessageID != messageID {
		return rejection("That table is closed. Use the buttons on your latest game."), nil
	}

	err := action(game, ctx)
	if errors.Is(err, utils.ErrNoBet) {
		return rejection(utils.PlaceBetFirstMessage), nil
	}
	if utils.IsUserError(err) {
		return rejection(userMessage(err)), nil
	}

	if game.IsOver() {
		if finishErr := c.finish(ctx, game); err == nil {
			err = finishErr
		}
	} else {
		c.tables.Touch(userID)
	}

	reply := renderGame(game)
	reply.Update = true
	return reply, err
}

// SetPromptMessage records the message carrying the user's hit/stand buttons
func (c *Casino) SetPromptMessage(userID, messageID string) {
	c.tableMutex.Lock()
	defer c.tableMutex.Unlock()

	if game, exists := c.tables.Get(userID); exists && game.State() == blackjack.AwaitingAction {
		game.MessageID = messageID
	}
}

// finish removes a resolved round and persists the ledger.
// Must be called with tableMutex held.
func (c *Casino) finish(ctx context.Context, game *blackjack.Game) error {
	c.tables.End(game.UserID)
	log.Printf("Finished blackjack game for user %s: %s (bet %d, payout %d)",
		game.UserID, game.Outcome(), game.Bet(), game.Payout())
	return c.ledger.Persist(ctx)
}

// SweepExpired drops idle tables. A round that already took a bet forfeits it.
func (c *Casino) SweepExpired() int {
	c.tableMutex.Lock()
	expired := c.tables.CleanupExpired()
	var forfeited []*blackjack.Game
	for _, entry := range expired {
		if entry.Session.State() == blackjack.AwaitingAction {
			forfeited = append(forfeited, entry.Session)
		}
		entry.Session.Forfeit()
	}
	c.tableMutex.Unlock()

	for _, game := range forfeited {
		utils.BotLogf("BLACKJACK", "table for %s expired, bet of %d forfeited", game.UserID, game.Bet())
		if c.notify == nil {
			continue
		}
		notice := fmt.Sprintf("<@%s> "+utils.GameCleanupMessage, game.UserID, game.Bet(), utils.CurrencyName)
		if _, err := c.notify.ChannelMessageSend(game.ChannelID, notice); err != nil {
			utils.BotLogf("BLACKJACK", "failed to post cleanup notice for %s: %v", game.UserID, err)
		}
	}

	if len(expired) > 0 {
		log.Printf("Cleaned up %d expired blackjack tables", len(expired))
	}
	return len(expired)
}

// StartSweeper runs SweepExpired every interval until Close
func (c *Casino) StartSweeper(interval time.Duration) {
	c.sweepTicker = time.NewTicker(interval)
	c.done = make(chan struct{})
	go c.sweepRoutine(c.sweepTicker, c.done)
}

func (c *Casino) sweepRoutine(ticker *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-ticker.C:
			c.SweepExpired()
		case <-done:
			return
		}
	}
}

// Close stops the sweeper
func (c *Casino) Close() {
	if c.sweepTicker != nil {
		c.sweepTicker.Stop()
		close(c.done)
		c.sweepTicker = nil
	}
}

// Stats reports counters for the health endpoint
func (c *Casino) Stats() map[string]int {
	return map[string]int{
		"accounts":      c.ledger.Size(),
		"active_tables": c.tables.Active(),
	}
}

func rejection(message string) Reply {
	return Reply{Content: "❌ " + message, Ephemeral: true}
}

// userMessage turns a validation or conflict error into guidance text
func userMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrInvalidBet):
		return "Please type a whole number bet between 1 and " + utils.FormatNumber(utils.MaxBet) + "."
	case errors.Is(err, utils.ErrInsufficientBalance):
		return "You don't have enough " + utils.CurrencyName + " for that bet."
	case errors.Is(err, utils.ErrNoBet):
		return utils.PlaceBetFirstMessage
	case errors.Is(err, utils.ErrBetAlreadyPlaced):
		return "Your bet is already on the table. Hit or stand!"
	case errors.Is(err, utils.ErrRoundOver):
		return "That round is already over."
	case errors.Is(err, utils.ErrNoSession):
		return "You don't have an active blackjack game. Type `" + utils.CommandPrefix + "casino` to start one."
	default:
		return strings.TrimSpace(err.Error())
	}
}
