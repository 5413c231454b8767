package services

import (
	"context"
	"errors"
	"sync"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

// In-memory collaborators for the service tests.

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[int64]*domain.Team
}

func newFakeTeamRepo(teams ...*domain.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int64]*domain.Team)}
	for _, t := range teams {
		repo.teams[t.ID] = t
	}
	return repo
}

func (r *fakeTeamRepo) GetTeam(ctx context.Context, teamID int64) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[teamID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *team
	return &copy, nil
}

func (r *fakeTeamRepo) setBudget(teamID int64, remaining float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[teamID].RemainingBudget = remaining
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[int64]*domain.Player
}

func newFakePlayerRepo(players ...*domain.Player) *fakePlayerRepo {
	repo := &fakePlayerRepo{players: make(map[int64]*domain.Player)}
	for _, p := range players {
		repo.players[p.ID] = p
	}
	return repo
}

func (r *fakePlayerRepo) GetPlayer(ctx context.Context, playerID int64) (*domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[playerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *player
	return &copy, nil
}

func (r *fakePlayerRepo) ListUnsold(ctx context.Context) ([]*domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var unsold []*domain.Player
	for _, p := range r.players {
		if p.Status == domain.PlayerUnsold {
			copy := *p
			unsold = append(unsold, &copy)
		}
	}
	return unsold, nil
}

func (r *fakePlayerRepo) UpdateStatus(ctx context.Context, playerID int64, status domain.PlayerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[playerID]
	if !ok {
		return domain.ErrNotFound
	}
	player.Status = status
	return nil
}

type fakeBidRepo struct {
	mu        sync.Mutex
	bids      []*domain.Bid
	appendErr error
}

func (r *fakeBidRepo) Append(ctx context.Context, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.bids = append(r.bids, bid)
	return nil
}

func (r *fakeBidRepo) ListForPlayer(ctx context.Context, playerID int64) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Bid
	for _, b := range r.bids {
		if b.PlayerID == playerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBidRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bids)
}

// fakeSettlementStore mirrors the transactional pair write against the
// fake repos: both mutations or neither.
type fakeSettlementStore struct {
	teams   *fakeTeamRepo
	players *fakePlayerRepo
	failErr error
}

func (s *fakeSettlementStore) CompleteSale(ctx context.Context, teamID, playerID int64, amount float64) error {
	if s.failErr != nil {
		return s.failErr
	}

	s.teams.mu.Lock()
	defer s.teams.mu.Unlock()
	s.players.mu.Lock()
	defer s.players.mu.Unlock()

	team, ok := s.teams.teams[teamID]
	if !ok {
		return domain.ErrNotFound
	}
	player, ok := s.players.players[playerID]
	if !ok {
		return domain.ErrNotFound
	}
	if team.RemainingBudget < amount {
		return domain.ErrBudgetExceeded
	}

	team.RemainingBudget -= amount
	player.Status = domain.PlayerSold
	player.TeamID = &team.ID
	soldPrice := amount
	player.SoldPrice = &soldPrice
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []*domain.AuctionEvent
	err    error
}

func (p *capturingPublisher) PublishAuctionEvent(ctx context.Context, event *domain.AuctionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) published() []*domain.AuctionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.AuctionEvent(nil), p.events...)
}

func (p *capturingPublisher) lastOfType(t domain.EventType) *domain.AuctionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Type == t {
			return p.events[i]
		}
	}
	return nil
}

var errStoreDown = errors.New("store down")
