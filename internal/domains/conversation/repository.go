package conversation

import (
	"github.com/unitwise/unitwise/internal/types"
)

// Single conversation per user
type ConversationRepository = types.ConversationRepository
