package services

import (
	"context"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

// AuctionRoom is the single shared channel every viewer subscribes to.
const AuctionRoom = "auction_room"

// EventListener bridges the event bus to the websocket room: every
// lifecycle and bid event reaching the bus is fanned out to all
// subscribers. Delivery is best-effort and at-most-once; gap detection
// runs on the event Seq plus a snapshot pull.
type EventListener struct {
	broadcaster domain.RoomBroadcaster
	log         logger.Logger
}

func NewEventListener(broadcaster domain.RoomBroadcaster, log logger.Logger) *EventListener {
	return &EventListener{
		broadcaster: broadcaster,
		log:         log,
	}
}

func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting auction event listener")
	return subscriber.SubscribeToAuctionEvents(ctx, el.handleEvent)
}

func (el *EventListener) handleEvent(event *domain.AuctionEvent) error {
	el.log.Debug("Fanning out auction event", "type", event.Type, "seq", event.Seq)
	return el.broadcaster.BroadcastToRoom(context.Background(), AuctionRoom, event)
}
