package websocket

import (
	"context"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

// WebSocketNotifier adapts the connection manager to the context-aware
// notifier and broadcaster interfaces the services consume.
type WebSocketNotifier struct {
	connManager domain.ConnectionManager
}

func NewWebSocketNotifier(connManager domain.ConnectionManager) *WebSocketNotifier {
	return &WebSocketNotifier{connManager: connManager}
}

func (n *WebSocketNotifier) NotifyUser(ctx context.Context, userID string, message interface{}) error {
	return n.connManager.NotifyUser(userID, message)
}

func (n *WebSocketNotifier) BroadcastToRoom(ctx context.Context, room string, message interface{}) error {
	return n.connManager.BroadcastToRoom(room, message)
}
