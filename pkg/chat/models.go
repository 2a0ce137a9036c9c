package chat

import (
	"gorm.io/gorm"
)

type ChannelKind string

const (
	ChannelText  ChannelKind = "text"
	ChannelVoice ChannelKind = "voice"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex"`
	Password string `gorm:"not null"`

	Servers []*Server `gorm:"many2many:server_members;"`
}

type Server struct {
	gorm.Model
	Name        string `gorm:"index;not null"`
	Description string
	OwnerID     uint

	Owner    User      `gorm:"foreignKey:OwnerID"`
	Members  []*User   `gorm:"many2many:server_members;"`
	Channels []Channel `gorm:"constraint:OnDelete:CASCADE"`
}

type Channel struct {
	gorm.Model
	Name string `gorm:"index;not null"`
	// Kind is fixed at creation; the gateway refuses a chat connection to a
	// voice channel and vice versa.
	Kind     ChannelKind `gorm:"index;not null"`
	ServerID uint

	Server   Server
	Messages []Message `gorm:"constraint:OnDelete:CASCADE"`
}

type Message struct {
	gorm.Model
	Content   string `gorm:"type:text"`
	UserID    uint
	ChannelID uint

	User    User
	Channel Channel
}
