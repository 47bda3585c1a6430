package user

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: first name is required")
	ErrPhoneInvalid        = errors.New("user: phone must contain 7 to 15 digits")
	ErrAvatarURLInvalid    = errors.New("user: avatar url must be http(s)")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

type ID string

// Role grants access to a part of the marketplace. Every account is a guest;
// submitting a first listing adds host.
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
)

// ParseRole accepts any casing and rejects unknown roles.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleGuest, RoleHost:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Profile is the part of the account shown to other people and edited on /me.
type Profile struct {
	FirstName string
	LastName  string
	Phone     string
	AvatarURL string
}

func (p Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// User is one row of the profiles collection plus its credentials.
type User struct {
	ID           ID
	Email        string
	Profile      Profile
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID           ID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
}

// NewUser validates a sign-up. Accounts without explicit roles start as guests.
func NewUser(params CreateParams) (*User, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	first := strings.TrimSpace(params.FirstName)
	if first == "" {
		return nil, ErrNameRequired
	}

	roles := []Role{RoleGuest}
	for _, raw := range params.Roles {
		role, err := ParseRole(string(raw))
		if err != nil {
			return nil, err
		}
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}

	created := params.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	created = created.UTC()
	return &User{
		ID:           ID(strings.TrimSpace(string(params.ID))),
		Email:        email,
		Profile:      Profile{FirstName: first, LastName: strings.TrimSpace(params.LastName)},
		PasswordHash: params.PasswordHash,
		Roles:        roles,
		CreatedAt:    created,
		UpdatedAt:    created,
	}, nil
}

// ProfileUpdate carries the editable fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	AvatarURL *string
}

// UpdateProfile applies every field or none of them.
func (u *User) UpdateProfile(upd ProfileUpdate, now time.Time) error {
	next := u.Profile
	if upd.FirstName != nil {
		if next.FirstName = strings.TrimSpace(*upd.FirstName); next.FirstName == "" {
			return ErrNameRequired
		}
	}
	if upd.LastName != nil {
		next.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Phone != nil {
		next.Phone = strings.TrimSpace(*upd.Phone)
		if next.Phone != "" && !validPhone(next.Phone) {
			return ErrPhoneInvalid
		}
	}
	if upd.AvatarURL != nil {
		next.AvatarURL = strings.TrimSpace(*upd.AvatarURL)
		if next.AvatarURL != "" && !httpURL(next.AvatarURL) {
			return ErrAvatarURLInvalid
		}
	}
	u.Profile = next
	u.touch(now)
	return nil
}

func (u *User) EnsureRole(role Role, now time.Time) error {
	parsed, err := ParseRole(string(role))
	if err != nil {
		return err
	}
	if u.HasRole(parsed) {
		return nil
	}
	u.Roles = append(u.Roles, parsed)
	u.touch(now)
	return nil
}

func (u *User) HasRole(role Role) bool {
	parsed, err := ParseRole(string(role))
	return err == nil && slices.Contains(u.Roles, parsed)
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

// NormalizeEmail is the comparison key for addresses: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validPhone allows digits with the usual separators and a leading plus.
func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
			continue
		}
		if !strings.ContainsRune("+ -()", r) {
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

func httpURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}
