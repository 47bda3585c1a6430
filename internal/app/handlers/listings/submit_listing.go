package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
	domainuser "stayhub/internal/domain/user"
)

const (
	submitListingKey = "listings.submit"

	// MaxImageBytes caps each uploaded image.
	MaxImageBytes  = 5 << 20
	imageKeyPrefix = "listings/"
)

var (
	ErrImageTooLarge = errors.New("listings: image exceeds 5MB")
	ErrImageType     = errors.New("listings: images must be JPG, PNG, GIF or WebP")
	ErrImageStore    = errors.New("listings: image storage is not configured")
	ErrPriceRequired = errors.New("listings: nightly price is required")
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var listingKinds = map[error]apperr.Kind{
	ErrImageTooLarge:                     apperr.KindValidation,
	ErrImageType:                         apperr.KindValidation,
	ErrPriceRequired:                     apperr.KindValidation,
	money.ErrInvalidAmount:               apperr.KindValidation,
	money.ErrInvalidCurrency:             apperr.KindValidation,
	domainproperties.ErrNameRequired:     apperr.KindValidation,
	domainproperties.ErrNightlyPrice:     apperr.KindValidation,
	domainproperties.ErrCapacity:         apperr.KindValidation,
	domainproperties.ErrBathrooms:        apperr.KindValidation,
	domainproperties.ErrLocationRequired: apperr.KindValidation,
	domainproperties.ErrCoordinates:      apperr.KindValidation,
	domainproperties.ErrHostRequired:     apperr.KindValidation,
	domainuser.ErrNotFound:               apperr.KindNotFound,
}

// ImageUpload is one file from the listing form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitListingCommand creates a property owned by the caller, who becomes a host.
type SubmitListingCommand struct {
	HostID       string
	Name         string
	Description  string
	NightlyPrice string
	Currency     string
	City         string
	Country      string
	Continent    string
	Lat          float64
	Long         float64
	Beds         int
	Bedrooms     int
	Bathrooms    *float64
	PropertyType string
	Amenities    []string
	Images       []ImageUpload
	Now          time.Time
}

func (c SubmitListingCommand) Key() string     { return submitListingKey }
func (c SubmitListingCommand) ActorID() string { return c.HostID }

func (c SubmitListingCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return domainproperties.ErrNameRequired
	}
	if strings.TrimSpace(c.NightlyPrice) == "" {
		return ErrPriceRequired
	}
	if strings.TrimSpace(c.City) == "" || strings.TrimSpace(c.Country) == "" {
		return domainproperties.ErrLocationRequired
	}
	for _, img := range c.Images {
		if _, err := imageContentType(img); err != nil {
			return err
		}
		if img.Size > MaxImageBytes {
			return ErrImageTooLarge
		}
	}
	return nil
}

type SubmitListingHandler struct {
	UoWFactory uow.UoWFactory
	Images     policies.ImageStore
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

// Handle uploads the images first; a failed upload aborts before anything is stored.
func (h *SubmitListingHandler) Handle(ctx context.Context, cmd SubmitListingCommand) (dto.Property, error) {
	if err := cmd.Validate(); err != nil {
		return dto.Property{}, classify(err)
	}
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	price, err := money.ParseDecimal(cmd.NightlyPrice, cmd.Currency)
	if err != nil {
		return dto.Property{}, classify(err)
	}
	urls, err := h.upload(ctx, cmd.Images)
	if err != nil {
		return dto.Property{}, err
	}

	var result dto.Property
	err = uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		host, err := unit.Profiles().ByID(ctx, domainuser.ID(cmd.HostID))
		if err != nil {
			return err
		}
		property, err := domainproperties.NewProperty(domainproperties.CreateParams{
			ID:           domainproperties.PropertyID(uuid.NewString()),
			HostID:       string(host.ID),
			Name:         cmd.Name,
			Description:  cmd.Description,
			NightlyPrice: price,
			Location: domainproperties.Location{
				City:      cmd.City,
				Country:   cmd.Country,
				Continent: cmd.Continent,
				Lat:       cmd.Lat,
				Long:      cmd.Long,
			},
			Beds:         cmd.Beds,
			Bedrooms:     cmd.Bedrooms,
			Bathrooms:    cmd.Bathrooms,
			PropertyType: cmd.PropertyType,
			Amenities:    cmd.Amenities,
			Images:       urls,
			Now:          now,
		})
		if err != nil {
			return err
		}
		if err := unit.Properties().Save(ctx, property); err != nil {
			return err
		}
		if !host.HasRole(domainuser.RoleHost) {
			if err := host.EnsureRole(domainuser.RoleHost, now); err != nil {
				return err
			}
			if err := unit.Profiles().Save(ctx, host); err != nil {
				return err
			}
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, property); err != nil {
			return err
		}
		result = dto.MapProperty(property)
		return nil
	})
	if err != nil {
		return dto.Property{}, classify(err)
	}
	if h.Logger != nil {
		h.Logger.Info("listing submitted", "property_id", result.ID, "host_id", cmd.HostID, "images", len(urls))
	}
	return result, nil
}

func (h *SubmitListingHandler) upload(ctx context.Context, images []ImageUpload) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if h.Images == nil {
		return nil, apperr.Backend(ErrImageStore)
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		contentType, _ := imageContentType(img)
		key := imageKeyPrefix + uuid.NewString() + strings.ToLower(path.Ext(img.Filename))
		url, err := h.Images.Upload(ctx, key, io.LimitReader(img.Body, MaxImageBytes+1), img.Size, contentType)
		if err != nil {
			return nil, apperr.Backend(fmt.Errorf("upload %s: %w", img.Filename, err))
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// imageContentType trusts the extension over the client-declared type.
func imageContentType(img ImageUpload) (string, error) {
	ext := strings.ToLower(path.Ext(img.Filename))
	ct, ok := imageTypes[ext]
	if !ok {
		return "", ErrImageType
	}
	return ct, nil
}

func classify(err error) error {
	return apperr.Map(err, listingKinds)
}

var _ commands.Handler[SubmitListingCommand, dto.Property] = (*SubmitListingHandler)(nil)
