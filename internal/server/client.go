package server

import (
	"net/http"
	"time"

	"dungeon-core/internal/engine"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService.
// Все клиенты наблюдают за одним героем; управлять им может любой.
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	Send chan api.ServerResponse
	ID   string

	log *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		log:  logger.For("ws_client"),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		if c.ID != "" {
			c.Game.Hub.Unregister(c.ID)
			c.log.Info("Client disconnected")
		} else {
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN): первое сообщение задает имя подписчика
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		c.log.WithError(err).Warn("Handshake failed")
		return
	}
	c.ID = loginCmd.Token
	if _, taken := c.Game.Hub.Subscriber(c.ID); c.ID == "" || taken {
		c.ID = utils.GenerateID()
	}
	c.log = c.log.WithField("client_id", c.ID)

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	gameUpdates := c.Game.Hub.Register(c.ID)
	go func() {
		for msg := range gameUpdates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	// Первый снимок отправляем сразу, не дожидаясь тика
	c.Game.Hub.SendTo(c.ID, *c.Game.Session.State())
	c.log.WithField("player_id", c.Game.PlayerID()).Info("Client logged in")

	// Сам логин тоже может быть командой (например, INIT)
	if loginCmd.Action != "" {
		loginCmd.Token = c.ID
		c.Game.ProcessCommand(loginCmd)
	}

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}
		cmd.Token = c.ID
		c.Game.ProcessCommand(cmd)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
