package channel

import (
	"errors"

	"ankachat/pkg/chat"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("channel not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create adds a channel to a server. The kind (text or voice) is fixed for
// the lifetime of the channel.
func (s *Service) Create(serverID uint, name string, kind chat.ChannelKind) (*chat.Channel, error) {
	if name == "" {
		return nil, errors.New("channel name cannot be empty")
	}
	if kind != chat.ChannelText && kind != chat.ChannelVoice {
		return nil, errors.New("channel type must be text or voice")
	}

	ch := chat.Channel{
		Name:     name,
		Kind:     kind,
		ServerID: serverID,
	}

	if err := s.db.Create(&ch).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *Service) Get(channelID uint) (*chat.Channel, error) {
	var ch chat.Channel
	if err := s.db.First(&ch, channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (s *Service) ListByServer(serverID uint) ([]chat.Channel, error) {
	var channels []chat.Channel
	err := s.db.Where("server_id = ?", serverID).Find(&channels).Error
	return channels, err
}

// Rename updates the channel name. The kind is immutable.
func (s *Service) Rename(channelID uint, name string) (*chat.Channel, error) {
	ch, err := s.Get(channelID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		ch.Name = name
	}

	if err := s.db.Save(ch).Error; err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Service) Delete(channelID uint) error {
	ch, err := s.Get(channelID)
	if err != nil {
		return err
	}

	if err := s.db.Where("channel_id = ?", channelID).Delete(&chat.Message{}).Error; err != nil {
		return err
	}
	return s.db.Delete(ch).Error
}
