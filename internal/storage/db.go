package storage

import (
	"ankachat/pkg/chat"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&chat.User{},
		&chat.Server{},
		&chat.Channel{},
		&chat.Message{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
