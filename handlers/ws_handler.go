package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/golang-jwt/jwt/v4"
	ws "github.com/tandon-kartikeya/cleanroom-bphc/websocket"
)

// ServeWs attaches a dashboard to the status-update hub. The connection
// stays registered until the peer goes away; inbound frames are drained and
// ignored, the hub only pushes.
func ServeWs(conn *websocket.Conn) {
	token, ok := conn.Locals("user").(*jwt.Token)
	if !ok {
		conn.Close()
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		conn.Close()
		return
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if email == "" {
		conn.Close()
		return
	}

	client := &ws.Client{Email: email, Role: role, Conn: conn}
	ws.Register <- client
	defer func() {
		ws.Unregister <- client
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
