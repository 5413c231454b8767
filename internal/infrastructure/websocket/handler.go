package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/internal/services"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients connect from arbitrary origins
	},
}

type inboundMessage struct {
	Type     string  `json:"type"`
	TeamID   int64   `json:"team_id"`
	PlayerID int64   `json:"player_id"`
	Amount   float64 `json:"amount"`
}

// WebSocketHandler joins viewers to the shared auction room and feeds
// their bid attempts into the admission pipeline. Rejections go back on
// the originating socket only.
type WebSocketHandler struct {
	bidService  *services.BidService
	manager     *services.AuctionManager
	connManager domain.ConnectionManager
	log         logger.Logger
}

func NewWebSocketHandler(bidService *services.BidService, manager *services.AuctionManager,
	connManager domain.ConnectionManager, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		bidService:  bidService,
		manager:     manager,
		connManager: connManager,
		log:         log,
	}
}

func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id required")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return nil
	}

	wsConn := NewWebSocketConnection(conn, userID, services.AuctionRoom, h.log)

	if err := h.connManager.RegisterConnection(userID, services.AuctionRoom, wsConn); err != nil {
		h.log.Error("Failed to register connection", "error", err)
		conn.Close()
		return nil
	}

	// No replay buffer; a joiner catches up from the current snapshot.
	snap := h.manager.Snapshot()
	wsConn.Send(&domain.AuctionEvent{
		Type:      domain.EventStateHeartbeat,
		Seq:       snap.Seq,
		Snapshot:  &snap,
		Timestamp: time.Now(),
	})

	go h.handleMessages(wsConn, userID)
	return nil
}

func (h *WebSocketHandler) handleMessages(conn *WebSocketConnection, userID string) {
	defer func() {
		h.connManager.UnregisterConnection(userID, services.AuctionRoom)
		conn.Close()
	}()

	for {
		var msg inboundMessage
		if err := conn.conn.ReadJSON(&msg); err != nil {
			h.log.Debug("Connection read ended", "user_id", userID, "error", err)
			return
		}

		switch msg.Type {
		case "place_bid":
			h.handleBidMessage(conn, msg)
		case "ping":
			conn.Send(map[string]string{"type": "pong"})
		}
	}
}

// handleBidMessage feeds one attempt into the pipeline. A rejection is
// acknowledged to the originating user only, never broadcast.
func (h *WebSocketHandler) handleBidMessage(conn *WebSocketConnection, msg inboundMessage) {
	if msg.Amount <= 0 {
		h.connManager.NotifyUser(conn.UserID(), map[string]string{"type": "error", "message": "invalid amount"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.bidService.PlaceBid(ctx, msg.TeamID, msg.PlayerID, msg.Amount); err != nil {
		h.connManager.NotifyUser(conn.UserID(), map[string]string{"type": "error", "message": domain.UserMessage(err)})
	}
}

type WebSocketConnection struct {
	conn   *websocket.Conn
	userID string
	room   string
	mu     sync.Mutex // gorilla allows one concurrent writer
	log    logger.Logger
}

func NewWebSocketConnection(conn *websocket.Conn, userID, room string, log logger.Logger) *WebSocketConnection {
	return &WebSocketConnection{
		conn:   conn,
		userID: userID,
		room:   room,
		log:    log,
	}
}

func (wsc *WebSocketConnection) Send(message interface{}) error {
	wsc.mu.Lock()
	defer wsc.mu.Unlock()
	return wsc.conn.WriteJSON(message)
}

func (wsc *WebSocketConnection) Close() error {
	return wsc.conn.Close()
}

func (wsc *WebSocketConnection) UserID() string {
	return wsc.userID
}

func (wsc *WebSocketConnection) Room() string {
	return wsc.room
}
