package ginserver

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	bookingapp "stayhub/internal/app/handlers/booking"
	listingsapp "stayhub/internal/app/handlers/listings"
)

const maxListingForm = 32 << 20

type HostHTTP interface {
	SubmitListing(c *gin.Context)
	ConfirmBooking(c *gin.Context)
}

type HostHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

// SubmitListing accepts multipart/form-data with repeated "images" parts.
func (h HostHandler) SubmitListing(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected multipart form data")
		return
	}

	lat, latErr := strconv.ParseFloat(formValue(form, "lat"), 64)
	long, longErr := strconv.ParseFloat(formValue(form, "long"), 64)
	if latErr != nil || longErr != nil {
		badRequest(c, "lat and long must be numbers")
		return
	}
	bathrooms, err := parseFloatPtr(formValue(form, "bathrooms"))
	if err != nil {
		badRequest(c, "bathrooms must be a number")
		return
	}

	cmd := listingsapp.SubmitListingCommand{
		HostID:       user.UserID,
		Name:         formValue(form, "name"),
		Description:  formValue(form, "description"),
		NightlyPrice: formValue(form, "nightly_price"),
		Currency:     formValue(form, "currency"),
		City:         formValue(form, "city"),
		Country:      formValue(form, "country"),
		Continent:    formValue(form, "continent"),
		Lat:          lat,
		Long:         long,
		Beds:         parseIntDefault(formValue(form, "beds"), 0),
		Bedrooms:     parseIntDefault(formValue(form, "bedrooms"), 0),
		Bathrooms:    bathrooms,
		PropertyType: formValue(form, "property_type"),
		Amenities:    formList(form, "amenities"),
	}

	files := form.File["images"]
	opened := make([]io.Closer, 0, len(files))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "could not read image "+fh.Filename)
			return
		}
		opened = append(opened, f)
		cmd.Images = append(cmd.Images, listingsapp.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	result, err := commands.Dispatch[listingsapp.SubmitListingCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/v1/properties/"+result.ID)
	respond(c, http.StatusCreated, result)
}

func (h HostHandler) ConfirmBooking(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := bookingapp.ConfirmBookingCommand{BookingID: c.Param("id"), HostID: user.UserID}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func formValue(form *multipart.Form, name string) string {
	if vals := form.Value[name]; len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

// formList accepts both repeated fields and a single comma separated value.
func formList(form *multipart.Form, name string) []string {
	var out []string
	for _, v := range form.Value[name] {
		out = append(out, splitCSV(v)...)
	}
	return out
}

var _ HostHTTP = HostHandler{}
