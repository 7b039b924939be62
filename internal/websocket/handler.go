package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until the tab goes away or
// the hub stops. initial frames are sent before any broadcast update.
func ServeWs(hub *Hub, c *websocket.Conn, clientID string, initial ...[]byte) {
	client := &Client{Hub: hub, Conn: c, ClientID: clientID, Send: make(chan []byte, 256)}
	for _, frame := range initial {
		client.Send <- frame
	}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
