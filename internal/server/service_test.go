package server

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

func createTestUser(t *testing.T, db *gorm.DB, username string) *User {
	user := User{Username: username, Email: username + "@example.com", Password: "hashedpassword"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

func TestServerService_Create(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	owner := createTestUser(t, db, "owner")

	srv, err := service.Create(owner.ID, "my server", "a place")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if srv.OwnerID != owner.ID {
		t.Errorf("Expected owner ID %d, got %d", owner.ID, srv.OwnerID)
	}

	// The owner is automatically the first member.
	member, err := service.IsMember(srv.ID, owner.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !member {
		t.Errorf("Expected owner to be a member of their own server")
	}

	if _, err := service.Create(owner.ID, "", ""); err == nil {
		t.Errorf("Expected error for empty server name")
	}
}

func TestServerService_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	if _, err := service.Get(9999); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestServerService_ListForUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, err := service.Create(alice.ID, "first", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := service.Create(bob.ID, "second", ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	servers, err := service.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(servers) != 1 || servers[0].ID != first.ID {
		t.Errorf("Expected exactly alice's server, got %d servers", len(servers))
	}

	if err := service.AddMember(first.ID, bob.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	servers, err = service.ListForUser(bob.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(servers) != 2 {
		t.Errorf("Expected bob in 2 servers, got %d", len(servers))
	}
}

func TestServerService_AddMember(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	owner := createTestUser(t, db, "owner")
	guest := createTestUser(t, db, "guest")

	srv, err := service.Create(owner.ID, "my server", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := service.AddMember(srv.ID, guest.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Adding twice must not duplicate the membership row.
	if err := service.AddMember(srv.ID, guest.ID); err != nil {
		t.Fatalf("Unexpected error on repeat join: %v", err)
	}

	members, err := service.Members(srv.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(members))
	}

	if err := service.AddMember(9999, guest.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestServerService_RemoveMember(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	owner := createTestUser(t, db, "owner")
	guest := createTestUser(t, db, "guest")

	srv, err := service.Create(owner.ID, "my server", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := service.AddMember(srv.ID, guest.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := service.RemoveMember(srv.ID, guest.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	member, err := service.IsMember(srv.ID, guest.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if member {
		t.Errorf("Expected guest to no longer be a member")
	}

	if err := service.RemoveMember(srv.ID, owner.ID); err == nil {
		t.Errorf("Expected error when the owner tries to leave")
	}
}

func TestServerService_Update(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	owner := createTestUser(t, db, "owner")
	guest := createTestUser(t, db, "guest")

	srv, err := service.Create(owner.ID, "my server", "old")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	updated, err := service.Update(srv.ID, owner.ID, "renamed", "new")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Name != "renamed" || updated.Description != "new" {
		t.Errorf("Expected updated fields, got name '%s' description '%s'", updated.Name, updated.Description)
	}

	if _, err := service.Update(srv.ID, guest.ID, "stolen", ""); err != ErrNotOwner {
		t.Errorf("Expected ErrNotOwner, got: %v", err)
	}
}

func TestServerService_Delete(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	owner := createTestUser(t, db, "owner")
	guest := createTestUser(t, db, "guest")

	srv, err := service.Create(owner.ID, "my server", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := service.Delete(srv.ID, guest.ID); err != ErrNotOwner {
		t.Errorf("Expected ErrNotOwner, got: %v", err)
	}

	if err := service.Delete(srv.ID, owner.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := service.Get(srv.ID); err != ErrNotFound {
		t.Errorf("Expected server to be gone, got: %v", err)
	}

	var count int64
	db.Table("server_members").Where("server_id = ?", srv.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected membership rows to be cleared, found %d", count)
	}
}
