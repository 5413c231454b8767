package services

import (
	"sync"
	"time"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

// RoundState is the authoritative in-memory record of the single live
// round. It is shared by the admission pipeline and the settlement
// engine; every transition runs under its mutex, so two bid attempts
// can never both act on stale budget state. The state is ephemeral: a
// restart drops any in-flight round and only settled sales survive.
//
// State machine: none --Open--> open --AdmitBid--> open
// --BeginSettlement--> settling --Clear--> none, with AbortSettlement
// returning settling to open when a persistence write fails.
type RoundState struct {
	mu sync.Mutex

	status       domain.RoundStatus
	playerID     int64
	basePrice    float64
	currentPrice float64
	leaderTeamID int64
	hasLeader    bool
	leaderName   string
	leaderLogo   string
	openedAt     time.Time
	seq          uint64

	// held tracks cumulative admitted amounts per team for the current
	// round. Admission reserves against it so that concurrent attempts
	// from one team cannot collectively overrun the team's budget.
	held map[int64]float64

	requireHigherBid bool
}

// NewRoundState returns an empty holder. requireHigherBid toggles the
// strict price rule; the auction historically admits ties and lower
// bids verbatim, leaving tie resolution to the auctioneer.
func NewRoundState(requireHigherBid bool) *RoundState {
	return &RoundState{
		held:             make(map[int64]float64),
		requireHigherBid: requireHigherBid,
	}
}

// Snapshot returns an immutable copy of the current round, or a zero
// snapshot with status "none" between rounds.
func (rs *RoundState) Snapshot() domain.RoundSnapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.snapshotLocked()
}

func (rs *RoundState) snapshotLocked() domain.RoundSnapshot {
	snap := domain.RoundSnapshot{
		Status: rs.status.String(),
		Seq:    rs.seq,
	}
	if rs.status == domain.RoundNone {
		return snap
	}

	playerID := rs.playerID
	openedAt := rs.openedAt
	snap.PlayerID = &playerID
	snap.BasePrice = rs.basePrice
	snap.CurrentPrice = rs.currentPrice
	snap.OpenedAt = &openedAt
	if rs.hasLeader {
		leaderID := rs.leaderTeamID
		snap.LeaderTeamID = &leaderID
		snap.LeaderName = rs.leaderName
		snap.LeaderLogo = rs.leaderLogo
	}
	return snap
}

// Open installs a new round for the player at its base price. It fails
// with ErrInvalidTransition while another round is live or when the
// player is not UNSOLD.
func (rs *RoundState) Open(player *domain.Player) (domain.RoundSnapshot, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.status != domain.RoundNone {
		return domain.RoundSnapshot{}, domain.ErrInvalidTransition
	}
	if player.Status != domain.PlayerUnsold {
		return domain.RoundSnapshot{}, domain.ErrInvalidTransition
	}

	rs.status = domain.RoundOpen
	rs.playerID = player.ID
	rs.basePrice = player.BasePrice
	rs.currentPrice = player.BasePrice
	rs.hasLeader = false
	rs.leaderTeamID = 0
	rs.leaderName = ""
	rs.leaderLogo = ""
	rs.openedAt = time.Now()
	rs.seq = 1
	rs.held = make(map[int64]float64)

	return rs.snapshotLocked(), nil
}

// AdmitBid validates one attempt against the live round and applies it.
// The persist callback runs inside the critical section; if it fails,
// nothing is applied. Checks, in order: the round is open for this
// player (ErrNoActiveRound), the team's cumulative admitted amounts
// stay within budget (ErrInsufficientFunds), and, only when
// requireHigherBid is set, the amount beats the current price
// (ErrBidTooLow).
func (rs *RoundState) AdmitBid(team *domain.Team, playerID int64, amount float64, persist func() error) (uint64, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.status != domain.RoundOpen || rs.playerID != playerID {
		return 0, domain.ErrNoActiveRound
	}
	if rs.held[team.ID]+amount > team.RemainingBudget {
		return 0, domain.ErrInsufficientFunds
	}
	if rs.requireHigherBid && amount <= rs.currentPrice {
		return 0, domain.ErrBidTooLow
	}

	if persist != nil {
		if err := persist(); err != nil {
			return 0, err
		}
	}

	rs.seq++
	rs.currentPrice = amount
	rs.leaderTeamID = team.ID
	rs.hasLeader = true
	rs.leaderName = team.Name
	rs.leaderLogo = team.LogoURL
	rs.held[team.ID] += amount

	return rs.seq, nil
}

// BeginSettlement flips the round to settling, after which no bid is
// admitted. It fails with ErrNoActiveRound when no round is open for
// the player. The returned snapshot is the state being settled.
func (rs *RoundState) BeginSettlement(playerID int64) (domain.RoundSnapshot, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.status != domain.RoundOpen || rs.playerID != playerID {
		return domain.RoundSnapshot{}, domain.ErrNoActiveRound
	}
	rs.status = domain.RoundSettling
	return rs.snapshotLocked(), nil
}

// AbortSettlement reopens a settling round. Used when the settlement
// writes failed and the round must stay live for manual reconciliation.
func (rs *RoundState) AbortSettlement() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.status == domain.RoundSettling {
		rs.status = domain.RoundOpen
	}
}

// Clear resets the holder to none and returns the state it replaced.
func (rs *RoundState) Clear() domain.RoundSnapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	prior := rs.snapshotLocked()

	rs.status = domain.RoundNone
	rs.playerID = 0
	rs.basePrice = 0
	rs.currentPrice = 0
	rs.hasLeader = false
	rs.leaderTeamID = 0
	rs.leaderName = ""
	rs.leaderLogo = ""
	rs.openedAt = time.Time{}
	rs.seq = 0
	rs.held = make(map[int64]float64)

	return prior
}
