package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

// auctionEventsChannel carries every round-lifecycle and bid event for
// the single live auction.
const auctionEventsChannel = "auction_events"

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishAuctionEvent(ctx context.Context, event *domain.AuctionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal auction event: %w", err)
	}
	return r.client.Publish(ctx, auctionEventsChannel, payload).Err()
}
