package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	reviewsapp "stayhub/internal/app/handlers/reviews"
	"stayhub/internal/app/queries"
)

type ReviewsHTTP interface {
	List(c *gin.Context)
	Eligibility(c *gin.Context)
	Submit(c *gin.Context)
}

type ReviewsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h ReviewsHandler) List(c *gin.Context) {
	q := reviewsapp.ListPropertyReviewsQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[reviewsapp.ListPropertyReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h ReviewsHandler) Eligibility(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := reviewsapp.CanReviewQuery{PropertyID: c.Param("id"), CustomerID: user.UserID}
	result, err := queries.Ask[reviewsapp.CanReviewQuery, dto.ReviewEligibility](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h ReviewsHandler) Submit(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid review body")
		return
	}
	cmd := reviewsapp.SubmitReviewCommand{
		PropertyID: c.Param("id"),
		CustomerID: user.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	result, err := commands.Dispatch[reviewsapp.SubmitReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, result)
}

var _ ReviewsHTTP = ReviewsHandler{}
