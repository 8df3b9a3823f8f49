package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/unitwise/unitwise/internal/types"
	"gorm.io/gorm"
)

// GormConversationRepo stores conversations and conversion records in
// MySQL and the rolling message window in Redis.
type GormConversationRepo struct {
	db     *gorm.DB
	rc     *redis.Client
	msgTTL time.Duration
}

func UserMsgListKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:msgs", userID.String())
}

// CreateMessage implements types.ConversationRepository.
func (g *GormConversationRepo) CreateMessage(ctx context.Context, userId uuid.UUID, msg types.Message) (*types.Message, error) {
	lmsg := MessageEntity{}
	lmsg.FromDomain(&msg)

	data, err := json.Marshal(lmsg)
	if err != nil {
		return nil, fmt.Errorf("can't marshal msg: %w", err)
	}

	if err := g.rc.Set(lmsg.Key(), data, g.msgTTL).Err(); err != nil {
		return nil, fmt.Errorf("storing user msg: %w", err)
	}

	score := float64(lmsg.Timestamp.UnixNano())
	if err := g.rc.ZAdd(UserMsgListKey(msg.UserId), redis.Z{
		Member: lmsg.ID.String(),
		Score:  score,
	}).Err(); err != nil {
		return nil, fmt.Errorf("unable to add to user msg list: %w", err)
	}

	return &msg, nil
}

// FetchMessage implements types.ConversationRepository.
func (g *GormConversationRepo) FetchMessage(ctx context.Context, msgId uuid.UUID) (*types.Message, error) {
	var msg MessageEntity
	rawMsg, err := g.rc.Get(MsgKey(msgId)).Result()
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rawMsg), &msg); err != nil {
		return nil, err
	}

	return msg.ToDomain(), nil
}

// FetchUserMessages implements types.ConversationRepository.
func (g *GormConversationRepo) FetchUserMessages(ctx context.Context, userId uuid.UUID, start, end int64) ([]types.Message, error) {
	var msgs []types.Message
	rawIds, err := g.rc.ZRange(UserMsgListKey(userId), start, end).Result()
	if err != nil {
		return nil, err
	}
	for _, rawId := range rawIds {
		id, err := uuid.Parse(rawId)
		if err != nil {
			continue
		}
		msg, err := g.FetchMessage(ctx, id)
		if err != nil {
			// expired entries linger in the index until fetched
			continue
		}
		msgs = append(msgs, *msg)
	}
	return msgs, nil
}

// RetrieveUserConversation implements types.ConversationRepository.
func (g *GormConversationRepo) RetrieveUserConversation(ctx context.Context, userID uuid.UUID, cfr *types.ConvFetchRequest) (*types.Conversation, error) {
	var conv ConversationEntity
	if err := g.db.WithContext(ctx).Where("owner_id = ?", userID).First(&conv).Error; err != nil {
		// create new conv then
		conv = ConversationEntity{
			ID:        uuid.New(),
			OwnerID:   userID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := g.db.WithContext(ctx).Create(&conv).Error; err != nil {
			return nil, err
		}
	}

	start, end := int64(0), int64(-1)
	if cfr != nil && cfr.MsgSearch != nil {
		start, end = cfr.MsgSearch.Start, cfr.MsgSearch.End
	}
	msgs, _ := g.FetchUserMessages(ctx, userID, start, end)
	dconv := conv.ToDomain()
	dconv.Messages = append(dconv.Messages, msgs...)
	return &dconv, nil
}

// CreateConversionRecord implements types.ConversationRepository.
func (g *GormConversationRepo) CreateConversionRecord(ctx context.Context, conversationID uuid.UUID, rec types.ConversionRecord) (*types.ConversionRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.ConversationID = conversationID

	var cre ConversionRecordEntity
	cre.FromDomain(rec)
	if err := g.db.WithContext(ctx).Create(&cre).Error; err != nil {
		return nil, err
	}
	return cre.ToDomain(), nil
}

// FetchConversionRecords implements types.ConversationRepository.
func (g *GormConversationRepo) FetchConversionRecords(ctx context.Context, conversationID uuid.UUID, limit int) ([]types.ConversionRecord, error) {
	q := g.db.WithContext(ctx).
		Model(&ConversionRecordEntity{}).
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entities []ConversionRecordEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	recs := make([]types.ConversionRecord, 0, len(entities))
	for _, e := range entities {
		recs = append(recs, *e.ToDomain())
	}
	return recs, nil
}

func NewGormConvoRepo(db *gorm.DB, rc *redis.Client, msgTTL time.Duration) types.ConversationRepository {
	return &GormConversationRepo{
		db: db, rc: rc, msgTTL: msgTTL,
	}
}
