package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	bookingapp "stayhub/internal/app/handlers/booking"
	"stayhub/internal/app/queries"
	domainpayment "stayhub/internal/domain/payment"
)

const idempotencyHeader = "Idempotency-Key"

type BookingsHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	ListMine(c *gin.Context)
}

type BookingsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type cardRequest struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

type createBookingRequest struct {
	PropertyID    string       `json:"property_id"`
	CheckIn       string       `json:"check_in"`
	CheckOut      string       `json:"check_out"`
	Guests        int          `json:"guests"`
	PaymentMethod string       `json:"payment_method"`
	Card          *cardRequest `json:"card"`
}

func (h BookingsHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid booking request")
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CustomerID:    user.UserID,
		PropertyID:    req.PropertyID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Guests:        req.Guests,
		PaymentMethod: req.PaymentMethod,
		ClientKey:     c.GetHeader(idempotencyHeader),
	}
	if req.Card != nil {
		cmd.Card = &domainpayment.Card{Number: req.Card.Number, Holder: req.Card.Holder, Expiry: req.Card.Expiry, CVV: req.Card.CVV}
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/v1/bookings/"+result.ID)
	respond(c, http.StatusCreated, result)
}

func (h BookingsHandler) Cancel(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := bookingapp.CancelBookingCommand{BookingID: c.Param("id"), RequesterID: user.UserID}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h BookingsHandler) ListMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := bookingapp.ListCustomerBookingsQuery{CustomerID: user.UserID}
	result, err := queries.Ask[bookingapp.ListCustomerBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

var _ BookingsHTTP = BookingsHandler{}
