package user

import (
	"testing"
	"time"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(CreateParams{
		ID:           "u-1",
		Email:        "  Guest@Example.com ",
		FirstName:    "Ana",
		LastName:     "Silva",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	return u
}

func TestNewUserSeedsProfileAndGuestRole(t *testing.T) {
	u := newTestUser(t)
	if u.Email != "guest@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Profile.DisplayName() != "Ana Silva" {
		t.Fatalf("unexpected display name %q", u.Profile.DisplayName())
	}
	if !u.HasRole(RoleGuest) || u.HasRole(RoleHost) {
		t.Fatalf("unexpected roles %v", u.Roles)
	}
}

func TestUpdateProfile(t *testing.T) {
	u := newTestUser(t)
	phone := "+351 912 345 678"
	avatar := "https://cdn.example.com/a.png"
	if err := u.UpdateProfile(ProfileUpdate{Phone: &phone, AvatarURL: &avatar}, time.Now()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Profile.Phone != phone || u.Profile.AvatarURL != avatar || u.Profile.FirstName != "Ana" {
		t.Fatalf("unexpected profile %+v", u.Profile)
	}

	bad := "call me"
	if err := u.UpdateProfile(ProfileUpdate{Phone: &bad}, time.Now()); err != ErrPhoneInvalid {
		t.Fatalf("expected ErrPhoneInvalid, got %v", err)
	}
	empty := " "
	if err := u.UpdateProfile(ProfileUpdate{FirstName: &empty}, time.Now()); err != ErrNameRequired {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if u.Profile.Phone != phone {
		t.Fatal("failed update must leave the profile untouched")
	}
}

func TestEnsureRoleIsIdempotent(t *testing.T) {
	u := newTestUser(t)
	for i := 0; i < 2; i++ {
		if err := u.EnsureRole(RoleHost, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	if len(u.Roles) != 2 {
		t.Fatalf("expected guest+host, got %v", u.Roles)
	}
}
