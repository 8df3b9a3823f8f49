package database

import (
	"github.com/unitwise/unitwise/internal/repository/conversation"
	userrepo "github.com/unitwise/unitwise/internal/repository/user"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) {
	db.AutoMigrate(
		&userrepo.UserEntity{},
		&conversation.ConversationEntity{},
		&conversation.ConversionRecordEntity{},
	)
}
