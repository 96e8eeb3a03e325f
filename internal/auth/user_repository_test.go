package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kestrelworks/aquamon-core/internal/access"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{
		Email:        "owner@example.com",
		Name:         "Owner",
		PasswordHash: "hash",
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create should assign an ID")
	}
	if user.Role != access.RoleUser {
		t.Errorf("default role = %q, want %q", user.Role, access.RoleUser)
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "owner@example.com" {
		t.Errorf("email = %q, want owner@example.com", byID.Email)
	}

	byEmail, err := repo.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetByEmail ID = %q, want %q", byEmail.ID, user.ID)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &User{Email: "dup@example.com", Name: "First", PasswordHash: "h"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := &User{Email: "dup@example.com", Name: "Second", PasswordHash: "h"}
	if err := repo.Create(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create with duplicate email = %v, want ErrEmailExists", err)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID missing = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail missing = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		u := &User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			Name:         fmt.Sprintf("User %d", i),
			PasswordHash: "h",
		}
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	users, total, err := repo.List(ctx, 1, 3, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(users) != 3 {
		t.Errorf("page size = %d, want 3", len(users))
	}

	users, total, err = repo.List(ctx, 2, 3, "")
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("page 2 size = %d, want 2", len(users))
	}
	if total != 5 {
		t.Errorf("page 2 total = %d, want 5", total)
	}
}

func TestUserRepository_ListSearch(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := &User{Email: "alice@example.com", Name: "Alice", PasswordHash: "h"}
	bob := &User{Email: "bob@example.com", Name: "Bob", PasswordHash: "h"}
	for _, u := range []*User{alice, bob} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	users, total, err := repo.List(ctx, 1, 10, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Errorf("search returned %d/%d users, want exactly alice", len(users), total)
	}
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{Email: "owner@example.com", Name: "Owner", PasswordHash: "h"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user.Name = "Renamed"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", got.Name)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, _ = repo.GetByID(ctx, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("password hash not updated")
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrUserNotFound", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Delete twice = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Count(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("empty count = %d, want 0", count)
	}

	if err := repo.Create(ctx, &User{Email: "a@example.com", Name: "A", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	count, _ = repo.Count(ctx)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
