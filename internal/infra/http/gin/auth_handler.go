package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	meapp "stayhub/internal/app/handlers/me"
	"stayhub/internal/app/identity"
	"stayhub/internal/app/queries"
	authsvc "stayhub/internal/app/services/auth"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type AuthHandler struct {
	Service *authsvc.Service
	Queries queries.Bus
	Logger  *slog.Logger
}

type registerRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Password   string `json:"password"`
	WantToHost bool   `json:"want_to_host"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := h.Service.Register(c.Request.Context(), authsvc.RegisterParams{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   req.Password,
		WantToHost: req.WantToHost,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, dto.NewAuthResponse(result.User, result.Token, result.ExpiresAt))
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, dto.NewAuthResponse(result.User, result.Token, result.ExpiresAt))
}

func (h AuthHandler) Logout(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if id, ok := identity.FromContext(c.Request.Context()); ok {
		token = id.Token
	}
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := queries.Ask[meapp.GetProfileQuery, dto.UserProfile](c.Request.Context(), h.Queries, meapp.GetProfileQuery{UserID: user.UserID})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

var _ AuthHTTP = AuthHandler{}
