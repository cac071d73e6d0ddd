package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplist/internal/auth"
	"shoplist/internal/dto"
	"shoplist/internal/service"
)

// AuthHandler exchanges credentials for bearer tokens.
type AuthHandler struct {
	tokens  *auth.TokenIssuer
	userSvc *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.TokenIssuer, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, userSvc: userSvc}
}

// Token godoc
// @Summary      Get an access token
// @Description  OAuth2 password flow: form-encoded username/password.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username   formData  string  true   "Username"
// @Param        password   formData  string  true   "Password"
// @Param        grant_type formData  string  false  "Ignored, accepted for OAuth2 clients"
// @Success      200  {object}  dto.TokenResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/ [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		unauthorized(c)
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			unauthorized(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	token, err := h.tokens.Issue(user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
}
