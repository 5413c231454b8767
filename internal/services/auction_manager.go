package services

import (
	"context"
	"time"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

// AuctionManager opens rounds and answers state queries. Exactly one
// round can be live at a time; opening a second, or opening a round
// for a player that is not UNSOLD, fails with ErrInvalidTransition.
type AuctionManager struct {
	rounds   *RoundState
	players  domain.PlayerRepository
	eventPub domain.EventPublisher
	log      logger.Logger
}

func NewAuctionManager(
	rounds *RoundState,
	players domain.PlayerRepository,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *AuctionManager {
	return &AuctionManager{
		rounds:   rounds,
		players:  players,
		eventPub: eventPub,
		log:      log,
	}
}

// OpenRound starts bidding for the player at its base price and
// announces the new round to the room.
func (m *AuctionManager) OpenRound(ctx context.Context, playerID int64) (domain.RoundSnapshot, error) {
	player, err := m.players.GetPlayer(ctx, playerID)
	if err != nil {
		return domain.RoundSnapshot{}, err
	}

	snap, err := m.rounds.Open(player)
	if err != nil {
		return domain.RoundSnapshot{}, err
	}

	m.log.Info("Round opened", "player_id", player.ID, "base_price", player.BasePrice)

	event := &domain.AuctionEvent{
		Type:      domain.EventRoundStarted,
		PlayerID:  player.ID,
		Amount:    player.BasePrice,
		Seq:       snap.Seq,
		Snapshot:  &snap,
		Timestamp: time.Now(),
	}
	if err := m.eventPub.PublishAuctionEvent(ctx, event); err != nil {
		m.log.Error("Failed to publish round started event", "error", err, "player_id", player.ID)
	}

	return snap, nil
}

// Snapshot returns the current round state. Late joiners pull this
// instead of replaying missed events.
func (m *AuctionManager) Snapshot() domain.RoundSnapshot {
	return m.rounds.Snapshot()
}

// UnsoldPlayers lists the players still available for a round.
func (m *AuctionManager) UnsoldPlayers(ctx context.Context) ([]*domain.Player, error) {
	return m.players.ListUnsold(ctx)
}
