package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

// Heartbeat periodically publishes the current snapshot while a round
// is open. There is no replay buffer, so this is how subscribers that
// missed an event converge without asking.
type Heartbeat struct {
	rounds   *RoundState
	eventPub domain.EventPublisher
	interval time.Duration
	cron     *cron.Cron
	log      logger.Logger
}

func NewHeartbeat(rounds *RoundState, eventPub domain.EventPublisher, interval time.Duration, log logger.Logger) *Heartbeat {
	return &Heartbeat{
		rounds:   rounds,
		eventPub: eventPub,
		interval: interval,
		cron:     cron.New(),
		log:      log,
	}
}

func (h *Heartbeat) Start() error {
	schedule := fmt.Sprintf("@every %s", h.interval)
	if _, err := h.cron.AddFunc(schedule, h.publish); err != nil {
		return fmt.Errorf("schedule heartbeat: %w", err)
	}
	h.cron.Start()
	h.log.Info("Heartbeat started", "interval", h.interval)
	return nil
}

func (h *Heartbeat) Stop() {
	h.cron.Stop()
}

func (h *Heartbeat) publish() {
	snap := h.rounds.Snapshot()
	if snap.Status != domain.RoundOpen.String() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := &domain.AuctionEvent{
		Type:      domain.EventStateHeartbeat,
		Seq:       snap.Seq,
		Snapshot:  &snap,
		Timestamp: time.Now(),
	}
	if err := h.eventPub.PublishAuctionEvent(ctx, event); err != nil {
		h.log.Error("Failed to publish heartbeat", "error", err)
	}
}
