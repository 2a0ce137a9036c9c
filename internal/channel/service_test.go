package channel

import (
	"testing"

	. "ankachat/pkg/chat"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&User{}, &Server{}, &Channel{}, &Message{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestServer(t *testing.T, db *gorm.DB) *Server {
	owner := User{Username: "owner", Email: "owner@example.com", Password: "hashedpassword"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	srv := Server{Name: "testserver", OwnerID: owner.ID}
	if err := db.Create(&srv).Error; err != nil {
		t.Fatalf("Failed to create test server: %v", err)
	}
	return &srv
}

func TestChannelService_Create(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	srv := createTestServer(t, db)

	tests := []struct {
		name        string
		channelName string
		kind        ChannelKind
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid text channel",
			channelName: "general",
			kind:        ChannelText,
			expectError: false,
		},
		{
			name:        "valid voice channel",
			channelName: "lounge",
			kind:        ChannelVoice,
			expectError: false,
		},
		{
			name:        "empty channel name",
			channelName: "",
			kind:        ChannelText,
			expectError: true,
			errorMsg:    "channel name cannot be empty",
		},
		{
			name:        "unknown channel kind",
			channelName: "weird",
			kind:        ChannelKind("video"),
			expectError: true,
			errorMsg:    "channel type must be text or voice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := service.Create(srv.ID, tt.channelName, tt.kind)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Expected error message '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if ch.Name != tt.channelName {
				t.Errorf("Expected name '%s', got '%s'", tt.channelName, ch.Name)
			}
			if ch.Kind != tt.kind {
				t.Errorf("Expected kind '%s', got '%s'", tt.kind, ch.Kind)
			}
			if ch.ServerID != srv.ID {
				t.Errorf("Expected server ID %d, got %d", srv.ID, ch.ServerID)
			}
		})
	}
}

func TestChannelService_Get(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	srv := createTestServer(t, db)

	created, err := service.Create(srv.ID, "general", ChannelText)
	if err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}

	ch, err := service.Get(created.ID)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if ch.Name != "general" {
		t.Errorf("Expected name 'general', got '%s'", ch.Name)
	}

	_, err = service.Get(9999)
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestChannelService_ListByServer(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	srv := createTestServer(t, db)

	if _, err := service.Create(srv.ID, "general", ChannelText); err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}
	if _, err := service.Create(srv.ID, "lounge", ChannelVoice); err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}
	if _, err := service.Create(srv.ID+1, "elsewhere", ChannelText); err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}

	channels, err := service.ListByServer(srv.ID)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(channels) != 2 {
		t.Errorf("Expected 2 channels, got %d", len(channels))
	}
}

func TestChannelService_Rename(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	srv := createTestServer(t, db)

	created, err := service.Create(srv.ID, "general", ChannelText)
	if err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}

	ch, err := service.Rename(created.ID, "announcements")
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if ch.Name != "announcements" {
		t.Errorf("Expected name 'announcements', got '%s'", ch.Name)
	}
	if ch.Kind != ChannelText {
		t.Errorf("Expected kind to stay '%s', got '%s'", ChannelText, ch.Kind)
	}

	_, err = service.Rename(9999, "ghost")
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestChannelService_Delete(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	srv := createTestServer(t, db)

	created, err := service.Create(srv.ID, "general", ChannelText)
	if err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}

	msg := Message{Content: "hello", UserID: srv.OwnerID, ChannelID: created.ID}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("Failed to create message: %v", err)
	}

	if err := service.Delete(created.ID); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if _, err := service.Get(created.ID); err != ErrNotFound {
		t.Errorf("Expected channel to be gone, got: %v", err)
	}

	var count int64
	db.Model(&Message{}).Where("channel_id = ?", created.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected channel messages to be deleted, found %d", count)
	}
}
