package server

import (
	"errors"

	"ankachat/pkg/chat"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("server not found")
	ErrNotMember = errors.New("you are not a member of this server")
	ErrNotOwner  = errors.New("only the server owner can do this")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create creates a server owned by userID; the owner becomes its first member.
func (s *Service) Create(ownerID uint, name, description string) (*chat.Server, error) {
	if name == "" {
		return nil, errors.New("server name cannot be empty")
	}

	var owner chat.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, err
	}

	srv := chat.Server{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.db.Create(&srv).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&srv).Association("Members").Append(&owner); err != nil {
		return nil, err
	}

	return &srv, nil
}

func (s *Service) Get(serverID uint) (*chat.Server, error) {
	var srv chat.Server
	if err := s.db.First(&srv, serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &srv, nil
}

// ListForUser returns the servers the user is a member of.
func (s *Service) ListForUser(userID uint) ([]chat.Server, error) {
	var servers []chat.Server
	err := s.db.
		Joins("JOIN server_members ON server_members.server_id = servers.id").
		Where("server_members.user_id = ?", userID).
		Find(&servers).Error
	return servers, err
}

func (s *Service) Members(serverID uint) ([]chat.User, error) {
	srv, err := s.Get(serverID)
	if err != nil {
		return nil, err
	}

	var members []chat.User
	err = s.db.Model(srv).Association("Members").Find(&members)
	return members, err
}

// IsMember reports whether userID belongs to serverID. The websocket gateway
// uses this as its membership check before any registry mutation.
func (s *Service) IsMember(serverID, userID uint) (bool, error) {
	var count int64
	err := s.db.Table("server_members").
		Where("server_id = ? AND user_id = ?", serverID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember adds userID to the server. Adding an existing member is a no-op.
func (s *Service) AddMember(serverID, userID uint) error {
	srv, err := s.Get(serverID)
	if err != nil {
		return err
	}

	member, err := s.IsMember(serverID, userID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}

	var user chat.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	return s.db.Model(srv).Association("Members").Append(&user)
}

// RemoveMember removes userID from the server. The owner cannot be removed.
func (s *Service) RemoveMember(serverID, userID uint) error {
	srv, err := s.Get(serverID)
	if err != nil {
		return err
	}
	if srv.OwnerID == userID {
		return errors.New("the server owner cannot leave their own server")
	}

	var user chat.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	return s.db.Model(srv).Association("Members").Delete(&user)
}

func (s *Service) Update(serverID, userID uint, name, description string) (*chat.Server, error) {
	srv, err := s.Get(serverID)
	if err != nil {
		return nil, err
	}
	if srv.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if name != "" {
		srv.Name = name
	}
	if description != "" {
		srv.Description = description
	}

	if err := s.db.Save(srv).Error; err != nil {
		return nil, err
	}
	return srv, nil
}

func (s *Service) Delete(serverID, userID uint) error {
	srv, err := s.Get(serverID)
	if err != nil {
		return err
	}
	if srv.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.db.Model(srv).Association("Members").Clear(); err != nil {
		return err
	}
	return s.db.Delete(srv).Error
}
