package me

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	domainsaved "stayhub/internal/domain/saved"
	domainuser "stayhub/internal/domain/user"
)

const (
	getProfileKey    = "me.profile.get"
	updateProfileKey = "me.profile.update"
)

var meKinds = map[error]apperr.Kind{
	domainuser.ErrNotFound:          apperr.KindNotFound,
	domainproperties.ErrNotFound:    apperr.KindNotFound,
	domainuser.ErrNameRequired:      apperr.KindValidation,
	domainuser.ErrPhoneInvalid:      apperr.KindValidation,
	domainuser.ErrAvatarURLInvalid:  apperr.KindValidation,
	domainsaved.ErrCustomerRequired: apperr.KindValidation,
	domainsaved.ErrPropertyRequired: apperr.KindValidation,
}

func classify(err error) error {
	return apperr.Map(err, meKinds)
}

type GetProfileQuery struct {
	UserID string
}

func (q GetProfileQuery) Key() string     { return getProfileKey }
func (q GetProfileQuery) ActorID() string { return q.UserID }

type GetProfileHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (dto.UserProfile, error) {
	var result dto.UserProfile
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		user, err := unit.Profiles().ByID(ctx, domainuser.ID(q.UserID))
		if err != nil {
			return err
		}
		result = dto.MapUserProfile(user)
		return nil
	})
	if err != nil {
		return dto.UserProfile{}, classify(err)
	}
	return result, nil
}

// UpdateProfileCommand edits the caller's profile; nil fields stay unchanged.
type UpdateProfileCommand struct {
	UserID    string
	FirstName *string
	LastName  *string
	Phone     *string
	AvatarURL *string
	Now       time.Time
}

func (c UpdateProfileCommand) Key() string     { return updateProfileKey }
func (c UpdateProfileCommand) ActorID() string { return c.UserID }

type UpdateProfileHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (dto.UserProfile, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	var result dto.UserProfile
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		user, err := unit.Profiles().ByID(ctx, domainuser.ID(cmd.UserID))
		if err != nil {
			return err
		}
		if err := user.UpdateProfile(domainuser.ProfileUpdate{
			FirstName: cmd.FirstName,
			LastName:  cmd.LastName,
			Phone:     cmd.Phone,
			AvatarURL: cmd.AvatarURL,
		}, now); err != nil {
			return err
		}
		if err := unit.Profiles().Save(ctx, user); err != nil {
			return err
		}
		result = dto.MapUserProfile(user)
		return nil
	})
	if err != nil {
		return dto.UserProfile{}, classify(err)
	}
	if h.Logger != nil {
		h.Logger.Info("profile updated", "user_id", cmd.UserID)
	}
	return result, nil
}

var (
	_ queries.Handler[GetProfileQuery, dto.UserProfile]       = (*GetProfileHandler)(nil)
	_ commands.Handler[UpdateProfileCommand, dto.UserProfile] = (*UpdateProfileHandler)(nil)
)
