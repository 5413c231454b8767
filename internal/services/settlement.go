package services

import (
	"context"
	"fmt"
	"time"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

// SettlementEngine finalizes the live round as sold or unsold. The sold
// path writes the player and team rows in one transaction; the round is
// cleared only after both writes are durable, so a failure leaves the
// round open for manual reconciliation instead of half-settled.
type SettlementEngine struct {
	rounds   *RoundState
	teamRepo domain.TeamRepository
	players  domain.PlayerRepository
	store    domain.SettlementStore
	eventPub domain.EventPublisher
	log      logger.Logger
}

func NewSettlementEngine(
	rounds *RoundState,
	teamRepo domain.TeamRepository,
	players domain.PlayerRepository,
	store domain.SettlementStore,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *SettlementEngine {
	return &SettlementEngine{
		rounds:   rounds,
		teamRepo: teamRepo,
		players:  players,
		store:    store,
		eventPub: eventPub,
		log:      log,
	}
}

// SellPlayer settles the round as sold to the team at finalAmount. It
// requires an open round for the player, rejects amounts that would
// drive the team's budget negative, and admits no further bids once
// settlement has begun.
func (e *SettlementEngine) SellPlayer(ctx context.Context, teamID, playerID int64, finalAmount float64) error {
	snap, err := e.rounds.BeginSettlement(playerID)
	if err != nil {
		return err
	}

	team, err := e.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		e.rounds.AbortSettlement()
		return err
	}
	if finalAmount > team.RemainingBudget {
		e.rounds.AbortSettlement()
		return domain.ErrBudgetExceeded
	}

	if err := e.store.CompleteSale(ctx, teamID, playerID, finalAmount); err != nil {
		e.rounds.AbortSettlement()
		e.log.Error("Settlement writes failed, round stays open",
			"team_id", teamID, "player_id", playerID, "amount", finalAmount, "error", err)
		return fmt.Errorf("complete sale: %w", err)
	}

	e.rounds.Clear()
	e.log.Info("Player sold", "player_id", playerID, "team_id", teamID, "amount", finalAmount)

	event := &domain.AuctionEvent{
		Type:      domain.EventSoldConfirmed,
		PlayerID:  playerID,
		TeamID:    team.ID,
		TeamName:  team.Name,
		Amount:    finalAmount,
		Seq:       snap.Seq + 1,
		Timestamp: time.Now(),
	}
	if err := e.eventPub.PublishAuctionEvent(ctx, event); err != nil {
		e.log.Error("Failed to publish sold event", "error", err, "player_id", playerID)
	}

	return nil
}

// MarkUnsold clears the round without touching team budgets or sale
// fields. With retain set, the player is first flagged UNSOLD_RETAINED
// so the auctioneer can bring it back in a later session.
func (e *SettlementEngine) MarkUnsold(ctx context.Context, playerID int64, retain bool) error {
	if retain {
		if err := e.players.UpdateStatus(ctx, playerID, domain.PlayerUnsoldRetained); err != nil {
			return fmt.Errorf("retain player: %w", err)
		}
	}
	return e.Reset(ctx)
}

// Reset drops the live round, if any, and tells the room.
func (e *SettlementEngine) Reset(ctx context.Context) error {
	prior := e.rounds.Clear()
	e.log.Info("Round reset", "prior_status", prior.Status)

	event := &domain.AuctionEvent{
		Type:      domain.EventAuctionReset,
		Seq:       prior.Seq + 1,
		Timestamp: time.Now(),
	}
	if err := e.eventPub.PublishAuctionEvent(ctx, event); err != nil {
		e.log.Error("Failed to publish reset event", "error", err)
	}
	return nil
}
