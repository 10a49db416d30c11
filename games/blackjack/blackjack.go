package blackjack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wenbucks-go/utils"
)

// State is where a round stands
type State int

const (
	// AwaitingBet: the session exists but no money is on the table
	AwaitingBet State = iota
	// AwaitingAction: cards are dealt and the player chooses hit or stand
	AwaitingAction
	// Resolved: the round is settled and the session is finished
	Resolved
)

func (s State) String() string {
	switch s {
	case AwaitingBet:
		return "awaiting_bet"
	case AwaitingAction:
		return "awaiting_action"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is how a resolved round ended
type Outcome string

const (
	OutcomeNone            Outcome = ""
	OutcomeBlackjack       Outcome = "Blackjack"
	OutcomeWin             Outcome = "Win"
	OutcomeDealerBust      Outcome = "Dealer Bust"
	OutcomePush            Outcome = "Push"
	OutcomeLose            Outcome = "Lose"
	OutcomeBust            Outcome = "Bust"
	OutcomeDealerBlackjack Outcome = "Dealer Blackjack"
)

// PlayerWon reports whether the outcome pays more than the bet back
func (o Outcome) PlayerWon() bool {
	return o == OutcomeBlackjack || o == OutcomeWin || o == OutcomeDealerBust
}

// Ledger is the slice of the currency ledger a round needs
type Ledger interface {
	Balance(userID string) int64
	Debit(ctx context.Context, userID string, amount int64) (int64, error)
	Credit(ctx context.Context, userID string, amount int64) (int64, error)
}

// Game is one user's blackjack round.
//
// Hands, bet and outcome are only meaningful in the states that set them;
// the methods reject transitions that do not fit the current state, so an
// action without a bet never reaches the dealing logic.
type Game struct {
	UserID    string
	ChannelID string
	CreatedAt time.Time

	// MessageID is the hit/stand prompt, set once it has been posted
	MessageID string

	state   State
	bet     int64
	player  utils.Hand
	dealer  utils.Hand
	outcome Outcome
	payout  int64

	deck   utils.Deck
	ledger Ledger
}

// NewGame creates a round waiting for a bet
func NewGame(userID, channelID string, ledger Ledger, deck utils.Deck) *Game {
	if deck == nil {
		deck = utils.NewRandomDeck()
	}
	return &Game{
		UserID:    userID,
		ChannelID: channelID,
		CreatedAt: time.Now(),
		state:     AwaitingBet,
		deck:      deck,
		ledger:    ledger,
	}
}

// State returns the current state of the round
func (g *Game) State() State {
	return g.state
}

// IsOver returns if the round has been settled
func (g *Game) IsOver() bool {
	return g.state == Resolved
}

func (g *Game) Bet() int64 {
	return g.bet
}

func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Payout returns the amount credited back when the round was settled
func (g *Game) Payout() int64 {
	return g.payout
}

// Profit returns the net result of a settled round
func (g *Game) Profit() int64 {
	return g.payout - g.bet
}

func (g *Game) PlayerValue() int {
	return g.player.Value()
}

func (g *Game) DealerValue() int {
	return g.dealer.Value()
}

// PlayerHand returns a copy of the player's cards
func (g *Game) PlayerHand() utils.Hand {
	return append(utils.Hand(nil), g.player...)
}

// DealerHand returns a copy of the dealer's cards
func (g *Game) DealerHand() utils.Hand {
	return append(utils.Hand(nil), g.dealer...)
}

// PlaceBet takes the wager and deals the opening cards. An invalid or
// unaffordable bet leaves the round waiting for another bet.
func (g *Game) PlaceBet(ctx context.Context, amount int64) error {
	switch g.state {
	case AwaitingAction:
		return utils.ErrBetAlreadyPlaced
	case Resolved:
		return utils.ErrRoundOver
	}

	if amount <= 0 || amount > utils.MaxBet {
		return utils.ErrInvalidBet
	}
	if amount > g.ledger.Balance(g.UserID) {
		return utils.ErrInsufficientBalance
	}
	if _, err := g.ledger.Debit(ctx, g.UserID, amount); err != nil {
		if errors.Is(err, utils.ErrInsufficientBalance) {
			return err
		}
		// Any other failure happened after the balance moved; hand the bet
		// back so no money sits outside a round.
		_, _ = g.ledger.Credit(context.WithoutCancel(ctx), g.UserID, amount)
		return fmt.Errorf("take bet: %w", err)
	}

	g.bet = amount
	g.player = utils.Hand{g.deck.Draw()}
	g.dealer = utils.Hand{g.deck.Draw()}
	g.player = append(g.player, g.deck.Draw())
	g.dealer = append(g.dealer, g.deck.Draw())
	g.state = AwaitingAction

	playerNatural := g.player.Value() == utils.BlackjackTarget
	dealerNatural := g.dealer.Value() == utils.BlackjackTarget

	switch {
	case playerNatural && dealerNatural:
		return g.resolve(ctx, OutcomePush, g.bet)
	case playerNatural:
		return g.resolve(ctx, OutcomeBlackjack, g.bet+g.bet*utils.BlackjackPayoutNum/utils.BlackjackPayoutDen)
	case dealerNatural:
		return g.resolve(ctx, OutcomeDealerBlackjack, 0)
	}
	return nil
}

// Hit draws one card for the player; going over 21 loses the round
func (g *Game) Hit(ctx context.Context) error {
	if err := g.requireAction(); err != nil {
		return err
	}

	g.player = append(g.player, g.deck.Draw())
	if g.player.IsBusted() {
		return g.resolve(ctx, OutcomeBust, 0)
	}
	return nil
}

// Stand plays out the dealer and settles the round
func (g *Game) Stand(ctx context.Context) error {
	if err := g.requireAction(); err != nil {
		return err
	}

	g.playDealerHand()

	playerValue := g.player.Value()
	dealerValue := g.dealer.Value()

	switch {
	case g.dealer.IsBusted():
		return g.resolve(ctx, OutcomeDealerBust, 2*g.bet)
	case playerValue > dealerValue:
		return g.resolve(ctx, OutcomeWin, 2*g.bet)
	case playerValue == dealerValue:
		return g.resolve(ctx, OutcomePush, g.bet)
	default:
		return g.resolve(ctx, OutcomeLose, 0)
	}
}

// Forfeit ends an unfinished round without paying anything back
func (g *Game) Forfeit() {
	if g.state == Resolved {
		return
	}
	if g.state == AwaitingAction {
		g.outcome = OutcomeLose
	}
	g.payout = 0
	g.state = Resolved
}

func (g *Game) requireAction() error {
	switch g.state {
	case AwaitingBet:
		return utils.ErrNoBet
	case Resolved:
		return utils.ErrRoundOver
	}
	return nil
}

// playDealerHand draws for the dealer until the hand reaches 17
func (g *Game) playDealerHand() {
	for g.dealer.Value() < utils.DealerStandValue {
		g.dealer = append(g.dealer, g.deck.Draw())
	}
}

// resolve settles the round. The state moves to Resolved even if the
// payout cannot be persisted, so the round is never replayed.
func (g *Game) resolve(ctx context.Context, outcome Outcome, payout int64) error {
	g.state = Resolved
	g.outcome = outcome
	g.payout = payout

	if payout == 0 {
		return nil
	}
	if _, err := g.ledger.Credit(ctx, g.UserID, payout); err != nil {
		return fmt.Errorf("pay out %d: %w", payout, err)
	}
	return nil
}
