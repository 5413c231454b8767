package websocket

import (
	"sync"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

// ConnectionManager tracks every live socket by room and by user.
// Lifecycle and bid events go to the whole room; error acknowledgments
// go to one user only.
type ConnectionManager struct {
	rooms     map[string]map[string]domain.WebSocketConnection // room -> userID -> connection
	userConns map[string][]domain.WebSocketConnection          // userID -> connections
	mutex     sync.RWMutex
	log       logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		rooms:     make(map[string]map[string]domain.WebSocketConnection),
		userConns: make(map[string][]domain.WebSocketConnection),
		log:       log,
	}
}

func (cm *ConnectionManager) RegisterConnection(userID, room string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.rooms[room] == nil {
		cm.rooms[room] = make(map[string]domain.WebSocketConnection)
	}
	cm.rooms[room][userID] = conn

	cm.userConns[userID] = append(cm.userConns[userID], conn)

	cm.log.Info("Connection registered", "user_id", userID, "room", room)
	return nil
}

func (cm *ConnectionManager) UnregisterConnection(userID, room string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if roomConns, exists := cm.rooms[room]; exists {
		delete(roomConns, userID)
		if len(roomConns) == 0 {
			delete(cm.rooms, room)
		}
	}

	if userConnections, exists := cm.userConns[userID]; exists {
		var remaining []domain.WebSocketConnection
		for _, existingConn := range userConnections {
			if existingConn.Room() != room {
				remaining = append(remaining, existingConn)
			}
		}

		if len(remaining) == 0 {
			delete(cm.userConns, userID)
		} else {
			cm.userConns[userID] = remaining
		}
	}

	cm.log.Info("Connection unregistered", "user_id", userID, "room", room)
	return nil
}

func (cm *ConnectionManager) connectionsForRoom(room string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var connections []domain.WebSocketConnection
	for _, conn := range cm.rooms[room] {
		connections = append(connections, conn)
	}
	return connections
}

func (cm *ConnectionManager) connectionsForUser(userID string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.userConns[userID]
}

// BroadcastToRoom delivers best-effort and at-most-once: a failed send
// is logged and skipped, never retried.
func (cm *ConnectionManager) BroadcastToRoom(room string, message interface{}) error {
	connections := cm.connectionsForRoom(room)

	for _, conn := range connections {
		if err := conn.Send(message); err != nil {
			cm.log.Error("Failed to send message", "user_id", conn.UserID(), "room", room, "error", err)
			// Continue to other connections
		}
	}

	return nil
}

func (cm *ConnectionManager) NotifyUser(userID string, message interface{}) error {
	connections := cm.connectionsForUser(userID)

	for _, conn := range connections {
		if err := conn.Send(message); err != nil {
			cm.log.Error("Failed to notify user", "user_id", userID, "error", err)
		}
	}

	return nil
}
