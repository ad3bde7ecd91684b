package services

import (
	"encoding/json"
	"sync"

	"blogapi/logger"
	"blogapi/models"
)

// HubService fans blog events out to websocket clients. Delivery is
// best-effort: a client whose buffer is full is dropped, and events are
// discarded when the hub itself is backed up.
type HubService struct {
	hub       *models.Hub
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewHubService() *HubService {
	hub := models.NewHub()
	service := &HubService{
		hub:     hub,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go service.Run()

	return service
}

func (h *HubService) GetHub() *models.Hub {
	return h.hub
}

// Close stops the hub loop and waits for it to exit. Connected clients are
// left to their pumps.
func (h *HubService) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// Register hands a new client to the hub loop. It reports false once the hub
// has been closed.
func (h *HubService) Register(client *models.Client) bool {
	select {
	case h.hub.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. After Close it returns without waiting.
func (h *HubService) Unregister(client *models.Client) {
	select {
	case h.hub.Unregister <- client:
	case <-h.done:
	}
}

func (h *HubService) Run() {
	defer close(h.stopped)

	for {
		select {
		case client := <-h.hub.Register:
			h.registerClient(client)

		case client := <-h.hub.Unregister:
			h.unregisterClient(client)

		case message := <-h.hub.Broadcast:
			h.broadcastToAll(message)

		case direct := <-h.hub.Direct:
			h.sendDirect(direct)

		case <-h.done:
			return
		}
	}
}

func (h *HubService) registerClient(client *models.Client) {
	h.hub.Clients[client] = true
	if client.UserID != 0 {
		h.hub.UserClients[client.UserID] = append(h.hub.UserClients[client.UserID], client)
	}
	logger.InfoWithFields("websocket client registered", logger.Fields{
		"client_id": client.ID,
		"user_id":   client.UserID,
	})
}

func (h *HubService) unregisterClient(client *models.Client) {
	if _, ok := h.hub.Clients[client]; !ok {
		return
	}
	delete(h.hub.Clients, client)
	close(client.Send)

	if clients, exists := h.hub.UserClients[client.UserID]; exists {
		for i, c := range clients {
			if c == client {
				h.hub.UserClients[client.UserID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.hub.UserClients[client.UserID]) == 0 {
			delete(h.hub.UserClients, client.UserID)
		}
	}
	logger.InfoWithFields("websocket client unregistered", logger.Fields{
		"client_id": client.ID,
		"user_id":   client.UserID,
	})
}

func (h *HubService) broadcastToAll(message []byte) {
	for client := range h.hub.Clients {
		h.deliver(client, message)
	}
}

func (h *HubService) sendDirect(direct models.DirectMessage) {
	if direct.Client != nil {
		if h.hub.Clients[direct.Client] {
			h.deliver(direct.Client, direct.Payload)
		}
		return
	}
	clients := append([]*models.Client(nil), h.hub.UserClients[direct.UserID]...)
	for _, client := range clients {
		h.deliver(client, direct.Payload)
	}
}

func (h *HubService) deliver(client *models.Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.unregisterClient(client)
	}
}

// Broadcast sends an event to every connected client.
func (h *HubService) Broadcast(messageType string, data interface{}) {
	payload, ok := encodeEvent(messageType, data)
	if !ok {
		return
	}
	select {
	case h.hub.Broadcast <- payload:
	default:
		logger.WarnWithFields("websocket broadcast dropped", logger.Fields{"type": messageType})
	}
}

// BroadcastToUser sends an event to every connection of one user.
func (h *HubService) BroadcastToUser(userID uint, messageType string, data interface{}) {
	payload, ok := encodeEvent(messageType, data)
	if !ok {
		return
	}
	select {
	case h.hub.Direct <- models.DirectMessage{UserID: userID, Payload: payload}:
	default:
		logger.WarnWithFields("websocket direct message dropped", logger.Fields{
			"type":    messageType,
			"user_id": userID,
		})
	}
}

// BroadcastToClient queues a raw payload for a single connection.
func (h *HubService) BroadcastToClient(client *models.Client, payload []byte) {
	select {
	case h.hub.Direct <- models.DirectMessage{Client: client, Payload: payload}:
	default:
		logger.WarnWithFields("websocket direct message dropped", logger.Fields{"client_id": client.ID})
	}
}

func encodeEvent(messageType string, data interface{}) ([]byte, bool) {
	payload, err := json.Marshal(models.WSMessage{Type: messageType, Data: data})
	if err != nil {
		logger.ErrorWithFields("error marshaling websocket message", logger.Fields{
			"type":  messageType,
			"error": err.Error(),
		})
		return nil, false
	}
	return payload, true
}
