package auth

import (
	"errors"

	"ankachat/pkg/chat"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Register(username, email, password string) (*chat.User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	var count int64
	if err := s.db.Model(&chat.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("username already taken")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := chat.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}

	return &user, s.db.Create(&user).Error
}

func (s *Service) Login(username, password string) (*chat.User, error) {
	var user chat.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// ResolveToken turns a bearer token into the user it was issued to. This is
// the authenticator consumed by both the REST middleware and the websocket
// gateway (which receives the token as a query parameter).
func (s *Service) ResolveToken(token string) (*chat.User, error) {
	claims, err := ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	username, _ := claims["sub"].(string)
	if username == "" {
		return nil, ErrInvalidToken
	}

	var user chat.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, ErrInvalidToken
	}

	return &user, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func VerifyPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
