package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "stayhub/internal/domain/user"
)

// ProfileRepository stores accounts in the profiles collection, keyed by user id
// with a unique lower-cased email.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(profilesCollection)}
}

func (r *ProfileRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *ProfileRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"email_key": emailKey(email)})
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domainuser.User, error) {
	var doc profileDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, domainuser.ErrNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *ProfileRepository) Save(ctx context.Context, user *domainuser.User) error {
	if user == nil || strings.TrimSpace(string(user.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	if emailKey(user.Email) == "" {
		return domainuser.ErrEmailRequired
	}
	doc := newProfileDocument(user)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if duplicateOn(err, emailIndexName) {
		return domainuser.ErrEmailAlreadyUsed
	}
	return err
}

func emailKey(email string) string {
	return domainuser.NormalizeEmail(email)
}

type profileDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Phone        string    `bson:"phone,omitempty"`
	AvatarURL    string    `bson:"avatar_url,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	Roles        []string  `bson:"roles"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newProfileDocument(u *domainuser.User) profileDocument {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	return profileDocument{
		ID:           string(u.ID),
		Email:        strings.TrimSpace(u.Email),
		EmailKey:     emailKey(u.Email),
		FirstName:    u.Profile.FirstName,
		LastName:     u.Profile.LastName,
		Phone:        u.Profile.Phone,
		AvatarURL:    u.Profile.AvatarURL,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d profileDocument) toAggregate() *domainuser.User {
	roles := make([]domainuser.Role, 0, len(d.Roles))
	for _, role := range d.Roles {
		roles = append(roles, domainuser.Role(role))
	}
	return &domainuser.User{
		ID:    domainuser.ID(d.ID),
		Email: d.Email,
		Profile: domainuser.Profile{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Phone:     d.Phone,
			AvatarURL: d.AvatarURL,
		},
		PasswordHash: d.PasswordHash,
		Roles:        roles,
		CreatedAt:    utc(d.CreatedAt),
		UpdatedAt:    utc(d.UpdatedAt),
	}
}

var _ domainuser.Repository = (*ProfileRepository)(nil)
