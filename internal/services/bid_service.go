package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

// BidService admits bid attempts against the live round. A rejected
// attempt never mutates state; the transport layer acknowledges the
// returned error to the originating caller only.
type BidService struct {
	rounds   *RoundState
	teamRepo domain.TeamRepository
	players  domain.PlayerRepository
	bids     domain.BidRepository
	eventPub domain.EventPublisher
	log      logger.Logger
}

func NewBidService(
	rounds *RoundState,
	teamRepo domain.TeamRepository,
	players domain.PlayerRepository,
	bids domain.BidRepository,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *BidService {
	return &BidService{
		rounds:   rounds,
		teamRepo: teamRepo,
		players:  players,
		bids:     bids,
		eventPub: eventPub,
		log:      log,
	}
}

// PlaceBid runs one attempt through the admission pipeline: team and
// player must exist, a round must be open for the player, and the
// amount must fit the team's budget. On success the bid row is
// appended, the round state updated and a new_bid event published.
func (s *BidService) PlaceBid(ctx context.Context, teamID, playerID int64, amount float64) error {
	s.log.Info("Placing bid", "team_id", teamID, "player_id", playerID, "amount", amount)

	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if _, err := s.players.GetPlayer(ctx, playerID); err != nil {
		return err
	}

	bid := &domain.Bid{
		ID:        uuid.New(),
		PlayerID:  playerID,
		TeamID:    teamID,
		Amount:    amount,
		CreatedAt: time.Now(),
	}

	// The append runs inside the round's critical section so an
	// accepted attempt is recorded before its price is visible.
	seq, err := s.rounds.AdmitBid(team, playerID, amount, func() error {
		if err := s.bids.Append(ctx, bid); err != nil {
			return fmt.Errorf("append bid: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Info("Bid rejected", "team_id", teamID, "player_id", playerID,
			"amount", amount, "reason", err)
		return err
	}

	event := &domain.AuctionEvent{
		Type:      domain.EventNewBid,
		PlayerID:  playerID,
		TeamID:    team.ID,
		TeamName:  team.Name,
		TeamLogo:  team.LogoURL,
		Amount:    amount,
		Seq:       seq,
		Timestamp: time.Now(),
	}
	if err := s.eventPub.PublishAuctionEvent(ctx, event); err != nil {
		s.log.Error("Failed to publish bid event", "error", err, "player_id", playerID)
	}

	return nil
}

// BidHistory returns the accepted bids for a player in acceptance order.
func (s *BidService) BidHistory(ctx context.Context, playerID int64) ([]*domain.Bid, error) {
	return s.bids.ListForPlayer(ctx, playerID)
}
