package domain

import "context"

// Repository interfaces
type TeamRepository interface {
	GetTeam(ctx context.Context, teamID int64) (*Team, error)
}

type PlayerRepository interface {
	GetPlayer(ctx context.Context, playerID int64) (*Player, error)
	ListUnsold(ctx context.Context) ([]*Player, error)
	UpdateStatus(ctx context.Context, playerID int64, status PlayerStatus) error
}

type BidRepository interface {
	Append(ctx context.Context, bid *Bid) error
	ListForPlayer(ctx context.Context, playerID int64) ([]*Bid, error)
}

// SettlementStore performs the two entity writes of a sale as one
// transactional unit: a SOLD player must always correspond to a
// decremented budget.
type SettlementStore interface {
	CompleteSale(ctx context.Context, teamID, playerID int64, amount float64) error
}

// Event interfaces
type EventPublisher interface {
	PublishAuctionEvent(ctx context.Context, event *AuctionEvent) error
}

type EventSubscriber interface {
	SubscribeToAuctionEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *AuctionEvent) error

// Notification interface consumed by the fan-out listener.
type RoomBroadcaster interface {
	BroadcastToRoom(ctx context.Context, room string, message interface{}) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	UserID() string
	Room() string
}

type ConnectionManager interface {
	RegisterConnection(userID, room string, conn WebSocketConnection) error
	UnregisterConnection(userID, room string) error
	BroadcastToRoom(room string, message interface{}) error
	NotifyUser(userID string, message interface{}) error
}
