package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unitwise/unitwise/internal/types"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	"gorm.io/gorm"
)

type ConversationEntity struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:char(36);not null"`
	OwnerID   uuid.UUID      `gorm:"column:owner_id;type:char(36);not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime(3)"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime(3)"`
	DeletedAt gorm.DeletedAt `gorm:"index"` // For soft delete
	Summary   string         `gorm:"type:varchar(255)"`
	// Relationships
	Messages []MessageEntity `json:"messages" gorm:"-"` // kept in Redis, ignored by GORM
}

func (c *ConversationEntity) ToDomain() types.Conversation {
	var msgs []types.Message
	for _, m := range c.Messages {
		msgs = append(msgs, *m.ToDomain())
	}
	return types.Conversation{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Summary:   c.Summary,
		Messages:  msgs,
	}
}

// ConversionRecordEntity persists one successful conversion for history.
type ConversionRecordEntity struct {
	ID             uuid.UUID `gorm:"primaryKey;type:char(36);not null"`
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:char(36);not null;index"`
	ToolName       string    `gorm:"type:varchar(64)"`
	InputValue     float64
	InputUnit      string `gorm:"type:varchar(32)"`
	OutputValue    float64
	OutputUnit     string         `gorm:"type:varchar(32)"`
	Timestamp      time.Time      `gorm:"autoCreateTime(3)"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (cre *ConversionRecordEntity) FromDomain(rec types.ConversionRecord) {
	cre.ID = rec.ID
	cre.ConversationID = rec.ConversationID
	cre.ToolName = rec.ToolName
	cre.InputValue = rec.InputValue
	cre.InputUnit = rec.InputUnit
	cre.OutputValue = rec.OutputValue
	cre.OutputUnit = rec.OutputUnit
	cre.Timestamp = rec.Timestamp
}

func (cre *ConversionRecordEntity) ToDomain() *types.ConversionRecord {
	return &types.ConversionRecord{
		ID:             cre.ID,
		ConversationID: cre.ConversationID,
		ToolName:       cre.ToolName,
		InputValue:     cre.InputValue,
		InputUnit:      cre.InputUnit,
		OutputValue:    cre.OutputValue,
		OutputUnit:     cre.OutputUnit,
		Timestamp:      cre.Timestamp,
	}
}

type MessageEntity struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Text           string           `json:"text"`
	Tags           []string         `json:"tags" gorm:"-"` // Not persisted to DB, stored in Redis
	Timestamp      time.Time        `json:"timestamp"`
	MsgRole        adapters.MsgRole `json:"msg_role"`
}

func (me *MessageEntity) Key() string {
	return fmt.Sprintf("msg:%s", me.ID.String())
}

func MsgKey(id uuid.UUID) string {
	return fmt.Sprintf("msg:%s", id.String())
}

func (me *MessageEntity) ToDomain() *types.Message {
	return &types.Message{
		Id:             me.ID,
		UserId:         me.UserID,
		ConversationID: me.ConversationID,
		Text:           me.Text,
		Tags:           me.Tags,
		Timestamp:      me.Timestamp,
		MsgRole:        me.MsgRole,
	}
}

func (me *MessageEntity) FromDomain(msg *types.Message) {
	me.ID = msg.Id
	me.ConversationID = msg.ConversationID
	me.Tags = msg.Tags
	me.Text = msg.Text
	me.UserID = msg.UserId
	me.Timestamp = msg.Timestamp
	me.MsgRole = msg.MsgRole
}
