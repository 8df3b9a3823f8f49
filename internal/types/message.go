package types

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

// short term info
type Message struct {
	Id             uuid.UUID        `json:"id"`
	UserId         uuid.UUID        `json:"user_id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Text           string           `json:"text"`
	Tags           []string         `json:"tags"`
	Timestamp      time.Time        `json:"timestamp"`
	MsgRole        adapters.MsgRole `json:"msg_role"`
}

// CreateMessage data to crt msg
// @Description Msg creation body
type CreateMessage struct {
	Text      string    `json:"text" binding:"required" example:"How many meters are in 10 feet?"`
	Timestamp time.Time `json:"timestamp" binding:"required" example:"2023-12-25T09:00:00Z"`
}

func (cm *CreateMessage) ToMessage(userID uuid.UUID) Message {
	return Message{
		Id:        uuid.New(),
		UserId:    userID,
		Text:      cm.Text,
		Tags:      []string{"user req"},
		Timestamp: cm.Timestamp,
		MsgRole:   adapters.USER,
	}
}

// Single conversation per user
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Summary   string    `json:"summary"`
	// Relationships
	Messages []Message `json:"messages"`
}

// ConversionRecord is one successful unit conversion produced by a tool call
// during a turn, kept for history and reporting.
type ConversionRecord struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	ToolName       string    `json:"tool_name"`
	InputValue     float64   `json:"input_value"`
	InputUnit      string    `json:"input_unit"`
	OutputValue    float64   `json:"output_value"`
	OutputUnit     string    `json:"output_unit"`
	Timestamp      time.Time `json:"timestamp"`
}

type ConvFetchRequest struct {
	MsgSearch *MsgRange
}

// MsgRange is a half-open [Start, End) window over a user's message history.
type MsgRange struct {
	Start int64
	End   int64
}

// Single conversation per user
type ConversationRepository interface {
	// Conversation
	RetrieveUserConversation(ctx context.Context, userID uuid.UUID, cfr *ConvFetchRequest) (*Conversation, error) // creates if doesn't exist
	// Messages
	CreateMessage(ctx context.Context, userId uuid.UUID, msg Message) (*Message, error)
	FetchUserMessages(ctx context.Context, userId uuid.UUID, start, end int64) ([]Message, error)
	FetchMessage(ctx context.Context, msgId uuid.UUID) (*Message, error)
	// Conversions
	CreateConversionRecord(ctx context.Context, conversationID uuid.UUID, rec ConversionRecord) (*ConversionRecord, error)
	FetchConversionRecords(ctx context.Context, conversationID uuid.UUID, limit int) ([]ConversionRecord, error)
}

func (m *Message) ToContractMessage() adapters.ContractMessage {
	return adapters.ContractMessage{
		Role:      m.MsgRole,
		Content:   m.Text,
		CreatedAt: m.Timestamp,
	}
}

// Convert contract message to conversation message
func ContractMsgToMessage(cm *adapters.ContractMessage, userId uuid.UUID, messageId uuid.UUID) Message {
	return Message{
		Id:        messageId,
		UserId:    userId,
		Text:      cm.Content,
		MsgRole:   cm.Role,
		Timestamp: cm.CreatedAt,
		Tags:      []string{},
	}
}

// Convert slice of messages to contract messages
func MessagesToContractMessages(messages []Message) []adapters.ContractMessage {
	contractMsgs := make([]adapters.ContractMessage, len(messages))
	for i, msg := range messages {
		contractMsgs[i] = msg.ToContractMessage()
	}
	return contractMsgs
}

// UserContext contains user metadata that is automatically injected into tool calls
type UserContext struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	UserEmail       string    `json:"user_email"`
	CurrentDateTime time.Time `json:"current_date_time"`
}

// NewUserContext creates a new UserContext with current timestamp
func NewUserContext(userID uuid.UUID, username, userEmail string) *UserContext {
	return &UserContext{
		UserID:          userID,
		Username:        username,
		UserEmail:       userEmail,
		CurrentDateTime: time.Now(),
	}
}

type userContextKey struct{}

// WithUserContext attaches the user context for downstream tool handlers.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserContextFrom extracts the user context if one was attached.
func UserContextFrom(ctx context.Context) (*UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(*UserContext)
	return uc, ok
}
