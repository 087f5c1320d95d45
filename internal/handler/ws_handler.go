package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/service"
)

const (
	wsReadLimit    = 16 << 10
	wsWriteTimeout = 10 * time.Second
)

// wsMessage is a client frame on the chat socket.
type wsMessage struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// WSHandler serves the streaming chat socket.
type WSHandler struct {
	chatService *service.ChatService
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. Origins are checked by the CORS
// layer and the bearer token, so the upgrader accepts any origin.
func NewWSHandler(chatService *service.ChatService) *WSHandler {
	return &WSHandler{
		chatService: chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Chat handles WS /ws/chat/:customerId. Each client frame gets exactly one
// reply frame. Any read, processing or write error closes the connection.
func (h *WSHandler) Chat(c *gin.Context) {
	customerID := c.Param("customerId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("customer_id", customerID).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	log.Info().Str("customer_id", customerID).Msg("WebSocket chat connected")

	ctx := c.Request.Context()
	sessionID := ""
	for {
		var in wsMessage
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("customer_id", customerID).Msg("WebSocket read ended")
			}
			return
		}
		if in.SessionID != "" {
			sessionID = in.SessionID
		}

		if strings.TrimSpace(in.Message) == "" {
			h.closeWithError(conn, customerID, errors.New("message is required"))
			return
		}

		reply, err := h.chatService.Chat(ctx, customerID, in.Message, sessionID, models.ChannelWebSocket)
		if err != nil {
			h.closeWithError(conn, customerID, err)
			return
		}
		sessionID = reply.SessionID

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Str("customer_id", customerID).Msg("WebSocket write failed")
			return
		}
	}
}

func (h *WSHandler) closeWithError(conn *websocket.Conn, customerID string, err error) {
	log.Warn().Err(err).Str("customer_id", customerID).Msg("Closing WebSocket chat")
	msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "processing error")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
