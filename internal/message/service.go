package message

import (
	"errors"

	"ankachat/pkg/chat"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create persists a message and returns the stored record with its
// authoritative id and timestamp. This is the durable half of the hub's
// persist-then-broadcast path; authorization has already happened at the
// REST layer or at websocket connect time.
func (s *Service) Create(userID, channelID uint, content string) (*chat.Message, error) {
	if content == "" {
		return nil, errors.New("message content cannot be empty")
	}

	msg := chat.Message{
		Content:   content,
		UserID:    userID,
		ChannelID: channelID,
	}

	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByChannel returns messages newest first.
func (s *Service) ListByChannel(channelID uint, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var messages []chat.Message
	err := s.db.Preload("User").
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (s *Service) Get(messageID uint) (*chat.Message, error) {
	var msg chat.Message
	if err := s.db.First(&msg, messageID).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Update edits a message's content. Only the author may edit.
func (s *Service) Update(messageID, userID uint, content string) (*chat.Message, error) {
	msg, err := s.Get(messageID)
	if err != nil {
		return nil, err
	}
	if msg.UserID != userID {
		return nil, errors.New("you can only edit your own messages")
	}

	if content != "" {
		msg.Content = content
	}

	if err := s.db.Save(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) Delete(messageID, userID uint, isServerOwner bool) error {
	msg, err := s.Get(messageID)
	if err != nil {
		return err
	}
	if msg.UserID != userID && !isServerOwner {
		return errors.New("you can only delete your own messages")
	}

	return s.db.Delete(msg).Error
}
