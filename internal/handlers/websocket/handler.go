package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/unitwise/unitwise/internal/domains/conversation"
	"github.com/unitwise/unitwise/internal/domains/user"
	"github.com/unitwise/unitwise/internal/types"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

// WebSocketHandler streams conversion turns over a socket: each incoming
// text message runs one agent turn, reply chunks go back as deltas.
type WebSocketHandler struct {
	logger              *Logger.Logger
	conversationService conversation.ConversationService
	userService         user.UserService
	upgrader            websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	logger *Logger.Logger,
	conversationService conversation.ConversationService,
	userService user.UserService,
) *WebSocketHandler {
	return &WebSocketHandler{
		logger:              logger,
		conversationService: conversationService,
		userService:         userService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origins before exposing publicly
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRouter) {
	ws := router.Group("/ws")
	{
		ws.GET("/text", h.HandleTextWebSocket)
	}
}

// HandleTextWebSocket handles a text chat connection. Auth comes from a
// token query parameter since browsers cannot set headers on sockets.
func (h *WebSocketHandler) HandleTextWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}
	claims, err := h.userService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Debugf("ws token validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	h.logger.Infof("ws text session opened for user %s", userID)

	for {
		var in WSMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("ws read error: %v", err)
			}
			return
		}
		if in.Type != MessageTypeText {
			h.writeError(conn, "unsupported_type", "only text messages are supported")
			continue
		}

		content, _ := in.Data.(map[string]interface{})
		text, _ := content["content"].(string)
		if text == "" {
			h.writeError(conn, "empty_message", "message content required")
			continue
		}

		h.runTurn(c, conn, userID, text)
	}
}

func (h *WebSocketHandler) runTurn(c *gin.Context, conn *websocket.Conn, userID uuid.UUID, text string) {
	msg := types.CreateMessage{Text: text, Timestamp: time.Now()}

	outCh := make(adapters.ContractResponseChannel, 32)
	done := make(chan struct{})
	seq := 0
	go func() {
		defer close(done)
		for batch := range outCh {
			for _, d := range batch {
				if d.Msg == nil {
					continue
				}
				seq++
				h.write(conn, WSMessage{
					Type:      MessageTypeDelta,
					Data:      DeltaMessage{Content: d.Msg.Content, Index: d.Index},
					Sequence:  seq,
					Timestamp: time.Now(),
				})
			}
		}
	}()

	reply, err := h.conversationService.ProcessMsgAsStream(c.Request.Context(), userID, msg.ToMessage(userID), &outCh)
	<-done
	if err != nil {
		h.writeError(conn, "processing_failed", "couldn't process message, try later!")
		return
	}

	h.write(conn, WSMessage{
		Type:      MessageTypeResponse,
		Data:      ResponseMessage{Content: reply.Text, Timestamp: reply.Timestamp},
		Timestamp: time.Now(),
	})
	h.write(conn, WSMessage{
		Type:      MessageTypeState,
		Data:      h.conversationService.AgentStateFor(userID),
		Timestamp: time.Now(),
	})
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg WSMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warnf("ws write error: %v", err)
	}
}

func (h *WebSocketHandler) writeError(conn *websocket.Conn, code, desc string) {
	h.write(conn, WSMessage{
		Type:      MessageTypeError,
		Data:      ErrorMessage{Code: code, Message: desc},
		Timestamp: time.Now(),
	})
}
