package domain

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID        int64
	Name      string
	Role      PlayerRole
	Country   string
	BasePrice float64
	Status    PlayerStatus
	SoldPrice *float64
	TeamID    *int64
	ImageURL  string
}

type PlayerRole string

const (
	RoleBatsman      PlayerRole = "BATSMAN"
	RoleBowler       PlayerRole = "BOWLER"
	RoleAllRounder   PlayerRole = "ALL_ROUNDER"
	RoleWicketKeeper PlayerRole = "WICKET_KEEPER"
)

type PlayerStatus string

const (
	PlayerUnsold         PlayerStatus = "UNSOLD"
	PlayerSold           PlayerStatus = "SOLD"
	PlayerUnsoldRetained PlayerStatus = "UNSOLD_RETAINED"
)

func (s PlayerStatus) Valid() bool {
	switch s {
	case PlayerUnsold, PlayerSold, PlayerUnsoldRetained:
		return true
	default:
		return false
	}
}

type Team struct {
	ID              int64
	Name            string
	LogoURL         string
	TotalBudget     float64
	RemainingBudget float64
}

// Bid is the append-only record of one accepted attempt. Rows are never
// updated or retracted.
type Bid struct {
	ID        uuid.UUID
	PlayerID  int64
	TeamID    int64
	Amount    float64
	CreatedAt time.Time
}

type RoundStatus int

const (
	RoundNone RoundStatus = iota
	RoundOpen
	RoundSettling
)

func (s RoundStatus) String() string {
	switch s {
	case RoundNone:
		return "none"
	case RoundOpen:
		return "open"
	case RoundSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// RoundSnapshot is an immutable copy of the live round. When Status is
// "none" every other field is zero.
type RoundSnapshot struct {
	PlayerID     *int64     `json:"player_id"`
	BasePrice    float64    `json:"base_price"`
	CurrentPrice float64    `json:"current_price"`
	LeaderTeamID *int64     `json:"leader_team_id"`
	LeaderName   string     `json:"leader_name,omitempty"`
	LeaderLogo   string     `json:"leader_logo,omitempty"`
	OpenedAt     *time.Time `json:"opened_at"`
	Seq          uint64     `json:"seq"`
	Status       string     `json:"status"`
}
