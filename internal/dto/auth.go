package dto

// TokenRequest is the form body for POST /auth/ (OAuth2 password flow).
// grant_type is accepted for client compatibility but not checked.
type TokenRequest struct {
	Username  string `form:"username" binding:"required"`
	Password  string `form:"password" binding:"required"`
	GrantType string `form:"grant_type"`
}

// TokenResponse is returned on successful authentication.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
