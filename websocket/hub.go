package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"github.com/tandon-kartikeya/cleanroom-bphc/services"
)

// Client is one live dashboard connection, keyed by the signed-in email.
// Admin connections additionally receive every event.
type Client struct {
	Email string
	Role  string
	Conn  *websocket.Conn
}

// StatusEvent is what dashboards receive when a booking changes state.
type StatusEvent struct {
	Type    string                  `json:"type"`
	Booking *services.BookingRecord `json:"booking"`
}

var clients = make(map[string]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *StatusEvent)

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.Email] = client
			clientsMu.Unlock()
		case client := <-Unregister:
			clientsMu.Lock()
			if existing, ok := clients[client.Email]; ok && existing.Conn == client.Conn {
				delete(clients, client.Email)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			deliver(event)
		}
	}
}

// NotifyStatusChange pushes an updated record to the requester's and the
// assigned reviewer's open dashboards. Fire-and-forget.
func NotifyStatusChange(record *services.BookingRecord) {
	select {
	case Broadcast <- &StatusEvent{Type: "booking_status", Booking: record}:
	default:
		log.Println("Websocket hub busy, dropping status broadcast")
	}
}

func deliver(event *StatusEvent) {
	booking := event.Booking

	var stale []string
	clientsMu.RLock()
	for email, client := range clients {
		interested := client.Role == models.RoleAdmin ||
			email == booking.StudentEmail ||
			(email == booking.FacultyEmail && booking.FacultyEmail != "")
		if !interested {
			continue
		}
		if err := client.Conn.WriteJSON(event); err != nil {
			log.Printf("Error pushing status event to %s: %v", email, err)
			client.Conn.Close()
			stale = append(stale, email)
		}
	}
	clientsMu.RUnlock()

	if len(stale) > 0 {
		clientsMu.Lock()
		for _, email := range stale {
			delete(clients, email)
		}
		clientsMu.Unlock()
	}
}
