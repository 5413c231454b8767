package domain

import "time"

type EventType string

const (
	EventRoundStarted   EventType = "new_round_started"
	EventNewBid         EventType = "new_bid"
	EventSoldConfirmed  EventType = "sold_confirmed"
	EventAuctionReset   EventType = "auction_reset"
	EventStateHeartbeat EventType = "state_heartbeat"
)

// AuctionEvent is what goes out on the shared channel. Seq is the
// per-round sequence number: a subscriber seeing a gap pulls the
// current snapshot instead of waiting for a replay.
type AuctionEvent struct {
	Type      EventType      `json:"type"`
	PlayerID  int64          `json:"player_id,omitempty"`
	TeamID    int64          `json:"team_id,omitempty"`
	TeamName  string         `json:"team_name,omitempty"`
	TeamLogo  string         `json:"team_logo,omitempty"`
	Amount    float64        `json:"amount,omitempty"`
	Seq       uint64         `json:"seq"`
	Snapshot  *RoundSnapshot `json:"snapshot,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
