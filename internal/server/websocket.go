package server

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/besuhoff/collision-demo-go/internal/protocol"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebsocketClient represents a connected viewer
type WebsocketClient struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Server    *GameServer
	UseBinary bool // Whether client prefers binary protocol

	session *Session
	send    chan []byte
}

// Client methods
func (c *WebsocketClient) readPump() {
	defer func() {
		select {
		case c.Server.unregister <- c:
		case <-c.Server.shutdown:
		}
	}()

	c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg protocol.GameMessage
		// Handle binary or text messages
		if messageType == websocket.BinaryMessage {
			err = protocol.UnmarshalBinary(message, &msg)
		} else {
			err = protocol.UnmarshalJSON(message, &msg)
		}
		if err != nil {
			log.Printf("Client %s sent a malformed message: %v", c.ID, err)
			c.Send(protocol.NewErrorMessage("malformed message"))
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *WebsocketClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Send as binary or text based on client preference
			msgType := websocket.TextMessage
			if c.UseBinary {
				msgType = websocket.BinaryMessage
			}

			if err := c.Conn.WriteMessage(msgType, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WebsocketClient) handleMessage(msg *protocol.GameMessage) {
	switch msg.Type {
	case types.MsgTypePointer:
		if !finitePointer(msg.Pointer) {
			c.Send(protocol.NewErrorMessage("pointer coordinates must be finite"))
			return
		}
		c.session.Engine.SetPointer(msg.Pointer.X, msg.Pointer.Y)
	default:
		log.Printf("Ignoring %s message from client %s", msg.Type, c.ID)
	}
}

// Send encodes msg in the client's preferred format and queues it
func (c *WebsocketClient) Send(msg *protocol.GameMessage) {
	var data []byte
	var err error
	if c.UseBinary {
		data, err = protocol.MarshalBinary(msg)
	} else {
		data, err = protocol.MarshalJSON(msg)
	}
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	c.enqueue(data)
}

func (c *WebsocketClient) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		// Buffer full
	}
}
