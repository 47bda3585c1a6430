package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	meapp "stayhub/internal/app/handlers/me"
	propertiesapp "stayhub/internal/app/handlers/properties"
	"stayhub/internal/app/queries"
)

type MeHTTP interface {
	Profile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	Saved(c *gin.Context)
	Save(c *gin.Context)
	Unsave(c *gin.Context)
	Recommendations(c *gin.Context)
}

type MeHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

// Absent fields stay untouched; an empty string clears the field.
type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

func (h MeHandler) Profile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[meapp.GetProfileQuery, dto.UserProfile](c.Request.Context(), h.Queries, meapp.GetProfileQuery{UserID: user.UserID})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h MeHandler) UpdateProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile body")
		return
	}
	cmd := meapp.UpdateProfileCommand{
		UserID:    user.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	}
	result, err := commands.Dispatch[meapp.UpdateProfileCommand, dto.UserProfile](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h MeHandler) Saved(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[meapp.ListSavedQuery, dto.SavedCollection](c.Request.Context(), h.Queries, meapp.ListSavedQuery{CustomerID: user.UserID})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h MeHandler) Save(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := meapp.SavePropertyCommand{CustomerID: user.UserID, PropertyID: c.Param("propertyId")}
	result, err := commands.Dispatch[meapp.SavePropertyCommand, dto.SavedProperty](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h MeHandler) Unsave(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := meapp.UnsavePropertyCommand{CustomerID: user.UserID, PropertyID: c.Param("propertyId")}
	if _, err := commands.Dispatch[meapp.UnsavePropertyCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h MeHandler) Recommendations(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := propertiesapp.RecommendPropertiesQuery{CustomerID: user.UserID, Limit: parseIntDefault(c.Query("limit"), 0)}
	result, err := queries.Ask[propertiesapp.RecommendPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
