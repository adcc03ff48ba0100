package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Типы сообщений, которые хаб шлёт в комнату турнира.
const (
	MessageMatchCompleted = "MATCH_COMPLETED"
	MessageBracketUpdated = "BRACKET_UPDATED"
	MessageReplayEvent    = "REPLAY_EVENT"
	MessageReplayFinished = "REPLAY_FINISHED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Client — одно websocket-соединение, привязанное к комнате турнира.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

// Hub раздаёт события матчей по комнатам. Комната — идентификатор турнира.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			log.Printf("client joined room %s, clients in room: %d", client.room, len(h.rooms[client.room]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, registered := clients[client]; registered {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					log.Printf("client left room %s", client.room)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NewClient регистрирует соединение в комнате и запускает его насосы.
func (h *Hub) NewClient(conn *websocket.Conn, room string) {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
		room: room,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// MatchCompleted реализует уведомление сервиса матчей: результат уходит всем
// подписчикам турнира.
func (h *Hub) MatchCompleted(tournamentID string, match *models.Match) {
	h.broadcastToRoom(tournamentID, Message{
		Type:    MessageMatchCompleted,
		Payload: match,
		RoomID:  tournamentID,
	})
}

// BracketUpdated шлёт обновлённую сетку после продвижения победителя.
func (h *Hub) BracketUpdated(tournamentID string, bracket *models.Bracket) {
	h.broadcastToRoom(tournamentID, Message{
		Type:    MessageBracketUpdated,
		Payload: bracket,
		RoomID:  tournamentID,
	})
}

// ReplayTimeline воспроизводит сохранённую хронологию матча в комнате
// турнира: каждое событие уходит после паузы, равной его пейсингу. Запускается
// в отдельной горутине на каждый запрошенный повтор.
func (h *Hub) ReplayTimeline(tournamentID, matchID string, timeline []models.MatchEvent) {
	go func() {
		for i := range timeline {
			event := &timeline[i]
			h.broadcastToRoom(tournamentID, Message{
				Type: MessageReplayEvent,
				Payload: struct {
					MatchID string             `json:"match_id"`
					Event   *models.MatchEvent `json:"event"`
				}{MatchID: matchID, Event: event},
				RoomID: tournamentID,
			})
			time.Sleep(event.Pacing())
		}
		h.broadcastToRoom(tournamentID, Message{
			Type:    MessageReplayFinished,
			Payload: struct {
				MatchID string `json:"match_id"`
			}{MatchID: matchID},
			RoomID: tournamentID,
		})
	}()
}

func (h *Hub) broadcastToRoom(roomID string, message Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		log.Printf("failed to marshal message for room %s: %v", roomID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- encoded:
		default:
			log.Printf("client send buffer full in room %s, dropping message", roomID)
		}
	}
}

// readPump читает входящие сообщения только ради keepalive: клиентские
// сообщения игнорируются.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("client in room %s closed unexpectedly: %v", c.room, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
