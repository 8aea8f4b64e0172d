package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/internal/middleware"
	"github.com/whisperbox/internal/service"
	"github.com/whisperbox/pkg/response"
)

// AuthHandler handles registration, verification and session API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUp handles user registration
// POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.BadRequest(c, "username is already taken")
		case errors.Is(err, service.ErrEmailInUse):
			response.BadRequest(c, "a verified account already exists with this email")
		case errors.Is(err, service.ErrDeliveryFailed):
			middleware.LogError("sign-up: %v", err)
			response.InternalError(c, "failed to send verification email")
		default:
			middleware.LogError("sign-up: %v", err)
			response.InternalError(c, "failed to register user")
		}
		return
	}

	response.Created(c, "user registered, please verify your email", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// VerifyCode handles verification code confirmation
// POST /api/v1/auth/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req service.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	_, err := h.authService.VerifyCode(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrCodeExpired):
			response.BadRequest(c, "verification code expired, sign up again to get a new one")
		case errors.Is(err, service.ErrCodeIncorrect):
			response.BadRequest(c, "incorrect verification code")
		default:
			middleware.LogError("verify-code: %v", err)
			response.InternalError(c, "failed to verify account")
		}
		return
	}

	response.Success(c, "account verified successfully", nil)
}

// SignIn handles user login
// POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid username or password")
		case errors.Is(err, service.ErrNotVerified):
			response.Forbidden(c, "please verify your email before signing in")
		default:
			middleware.LogError("sign-in: %v", err)
			response.InternalError(c, "failed to sign in")
		}
		return
	}

	response.Success(c, "signed in", token)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.RefreshToken(req.Token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	response.Success(c, "token refreshed", token)
}

// CheckUsername reports whether a username is free among verified accounts
// GET /api/v1/auth/check-username?username=
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	var query struct {
		Username string `form:"username" binding:"required,alphanum,min=2,max=32"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid username format")
		return
	}

	available, err := h.authService.UsernameAvailable(query.Username)
	if err != nil {
		middleware.LogError("check-username: %v", err)
		response.InternalError(c, "failed to check username")
		return
	}

	message := "username is available"
	if !available {
		message = "username is already taken"
	}
	response.Success(c, message, gin.H{"available": available})
}

// Me returns the authenticated user's profile and shareable link
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	profile, err := h.authService.Profile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		middleware.LogError("me: %v", err)
		response.InternalError(c, "failed to load profile")
		return
	}

	response.Success(c, "profile", profile)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/sign-up", h.SignUp)
		auth.POST("/verify-code", h.VerifyCode)
		auth.POST("/sign-in", h.SignIn)
		auth.POST("/refresh", h.RefreshToken)
		auth.GET("/check-username", h.CheckUsername)
		auth.GET("/me", authMiddleware, h.Me)
	}
}
