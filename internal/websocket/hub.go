package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event dikirim ke client saat roadmap/task milik user berubah, supaya
// dashboard yang terbuka bisa refresh tanpa polling.
type Event struct {
	Event string `json:"event"` // task_added, task_done, task_undone, ...
	ID    int    `json:"id"`
}

// Client merepresentasikan satu koneksi WebSocket milik satu akun.
type Client struct {
	UserID int
	Conn   *websocket.Conn
	Mu     sync.Mutex
}

type message struct {
	userID  int
	payload []byte
}

// Hub mengelola koneksi WebSocket per akun; event hanya dikirim ke
// koneksi milik akun yang bersangkutan.
type Hub struct {
	Clients    map[int]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	events     chan message
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[int]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan message, 64),
	}
}

// Default dipakai handler lewat Publish; loop-nya dijalankan dari main.
var Default = NewHub()

// Publish mengirim event ke semua koneksi milik userID. Non-blocking:
// saat hub tidak jalan (unit test) atau buffer penuh, event dibuang.
func Publish(userID int, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case Default.events <- message{userID: userID, payload: payload}:
	default:
	}
}

// Run menjalankan loop Hub untuk mengelola register, unregister, dan
// pengiriman event.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.Clients[client.UserID] == nil {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
		case client := <-h.Unregister:
			if conns, ok := h.Clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					client.Conn.Close()
					if len(conns) == 0 {
						delete(h.Clients, client.UserID)
					}
				}
			}
		case msg := <-h.events:
			for client := range h.Clients[msg.userID] {
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, msg.payload)
				client.Mu.Unlock()
				if err != nil {
					delete(h.Clients[msg.userID], client)
					client.Conn.Close()
				}
			}
		}
	}
}
