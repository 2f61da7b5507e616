package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobscout/jobscout/backend/go-services/internal/auth/google"
	"github.com/jobscout/jobscout/backend/go-services/internal/models"
	"github.com/jobscout/jobscout/backend/go-services/internal/sessions"
	"github.com/jobscout/jobscout/backend/go-services/internal/tokens"
	"github.com/jobscout/jobscout/backend/go-services/internal/users"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

var authLog = logger.For("auth")

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthDeps are the collaborators of AuthHandler. GoogleIDTokens and
// GoogleFlow may be nil when Google sign-in is not configured.
type AuthDeps struct {
	Users          *users.Service
	Sessions       *sessions.Service
	Tokens         *tokens.Manager
	Blacklist      *sessions.Blacklist
	GoogleIDTokens middleware.Verifier
	GoogleFlow     *google.Flow
	RefreshTTL     time.Duration
}

// AuthHandler holds dependencies
type AuthHandler struct {
	AuthDeps
}

func NewAuthHandler(d AuthDeps) *AuthHandler {
	if d.RefreshTTL <= 0 {
		d.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{AuthDeps: d}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.SignUp)
	a.POST("/login", h.Login)
	a.POST("/google", h.GoogleSignIn)
	a.GET("/google/start", h.GoogleStart)
	a.GET("/google/callback", h.GoogleCallback)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// issue creates a refresh session and an access token for u.
func (h *AuthHandler) issue(c *gin.Context, u *models.User) (access, refresh string, ok bool) {
	refresh, err := h.Sessions.CreateSession(c.Request.Context(), u.Sub, h.RefreshTTL)
	if err != nil {
		authLog.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return "", "", false
	}
	access, err = h.Tokens.GenerateAccessToken(u)
	if err != nil {
		authLog.Errorf("failed to sign access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return "", "", false
	}
	return access, refresh, true
}

func (h *AuthHandler) tokenResponse(c *gin.Context, status int, u *models.User, extra gin.H) {
	access, refresh, ok := h.issue(c, u)
	if !ok {
		return
	}
	body := gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"userId":       u.Sub,
		"user":         u,
		"expiresIn":    int(h.Tokens.TTL().Seconds()),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// SignUp creates a credentials account and signs it in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	u, err := h.Users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, users.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	case errors.Is(err, users.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	case err != nil:
		authLog.Errorf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	h.tokenResponse(c, http.StatusCreated, u, gin.H{"message": "User created successfully"})
}

// Login checks email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	u, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	case errors.Is(err, users.ErrFederatedOnly):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This account uses Google sign-in"})
		return
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	case err != nil:
		authLog.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	h.tokenResponse(c, http.StatusOK, u, nil)
}

// GoogleSignIn accepts a Google ID token obtained by the browser.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	if h.GoogleIDTokens == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in not configured"})
		return
	}
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken is required"})
		return
	}
	tok, err := h.GoogleIDTokens.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": err.Error()})
		return
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
		return
	}
	u, err := h.Users.FindOrCreateFederated(c.Request.Context(), claims, models.ProviderGoogle)
	if err != nil {
		authLog.Errorf("google sign-in failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google authentication failed", "details": err.Error()})
		return
	}
	h.tokenResponse(c, http.StatusOK, u, nil)
}

// GoogleStart redirects to the Google consent screen.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.GoogleFlow == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google auth not configured"})
		return
	}
	consent, err := h.GoogleFlow.Start()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google auth not configured"})
		return
	}
	c.Redirect(http.StatusFound, consent)
}

// GoogleCallback completes the code flow and sends the browser back to the
// UI with an access token.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.GoogleFlow == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google auth not configured"})
		return
	}
	claims, err := h.GoogleFlow.Complete(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, google.ErrInvalidState) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "Google authentication failed", "details": err.Error()})
		return
	}
	u, err := h.Users.FindOrCreateFederated(c.Request.Context(), claims, models.ProviderGoogle)
	if err != nil {
		authLog.Errorf("google callback: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google authentication failed"})
		return
	}
	access, err := h.Tokens.GenerateAccessToken(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	target, err := h.GoogleFlow.RedirectURL(access)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to redirect"})
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Refresh rotates a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, next, err := h.Sessions.Rotate(c.Request.Context(), req.RefreshToken, h.RefreshTTL)
	if err != nil {
		authLog.Errorf("refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.Users.GetBySub(c.Request.Context(), sess.Sub)
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	access, err := h.Tokens.GenerateAccessToken(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "refreshToken": next, "expiresIn": int(h.Tokens.TTL().Seconds())})
}

// Logout invalidates the refresh token and blacklists the bearer token, if any
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if at, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && at != "" {
		if err := h.Blacklist.Revoke(c.Request.Context(), at, h.Tokens.Remaining(at)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
			return
		}
	}
	if err := h.Sessions.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the signed-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	sub := middleware.Subject(c)
	u, err := h.Users.GetBySub(c.Request.Context(), sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
