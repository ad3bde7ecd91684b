package models

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventPostPublished   = "post_published"
	EventCommentCreated  = "comment_created"
	EventCommentReceived = "comment_received"
	EventClientConnected = "client_connected"
)

// Hub holds the connected websocket clients. Its maps are owned by the
// goroutine running the hub loop; everything else talks to it through the
// channels.
type Hub struct {
	Clients     map[*Client]bool
	UserClients map[uint][]*Client
	Broadcast   chan []byte
	Direct      chan DirectMessage
	Register    chan *Client
	Unregister  chan *Client
}

// Client is one websocket connection. UserID is zero for anonymous readers.
type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

// DirectMessage is a payload addressed to one connection when Client is set,
// otherwise to every connection of UserID.
type DirectMessage struct {
	Client  *Client
	UserID  uint
	Payload []byte
}

type WSMessage struct {
	Type     string      `json:"type"`
	Data     interface{} `json:"data"`
	ClientID string      `json:"client_id,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:     make(map[*Client]bool),
		UserClients: make(map[uint][]*Client),
		Broadcast:   make(chan []byte, 256),
		Direct:      make(chan DirectMessage, 256),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New().String(),
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
}
