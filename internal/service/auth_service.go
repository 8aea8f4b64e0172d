package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/whisperbox/internal/config"
	"github.com/whisperbox/internal/models"
	"github.com/whisperbox/internal/repository"
	"github.com/whisperbox/pkg/codegen"
	"github.com/whisperbox/pkg/crypto"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrCodeIncorrect      = errors.New("verification code incorrect")
	ErrDeliveryFailed     = errors.New("verification email delivery failed")
	ErrNotVerified        = errors.New("account not verified")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

const verifyCodeTTL = time.Hour

// EmailSender delivers the one-time verification code.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, to, username, code string) error
}

// AuthService handles registration, verification and session tokens
type AuthService struct {
	userRepo  *repository.UserRepository
	sender    EmailSender
	jwtConfig config.JWTConfig
	baseURL   string
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repository.UserRepository,
	sender EmailSender,
	jwtConfig config.JWTConfig,
	baseURL string,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		sender:    sender,
		jwtConfig: jwtConfig,
		baseURL:   baseURL,
	}
}

// RegisterRequest represents the sign-up request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=2,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// VerifyRequest represents the code confirmation request
type VerifyRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required,len=6,numeric"`
}

// LoginRequest represents the sign-in request
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register creates or refreshes an unverified account and dispatches the
// verification code by email.
//
// A verified user already holding the username or email is a conflict. An
// unverified user with the same email is refreshed in place: new password
// hash, new code, new expiry, same row. The account write is not rolled back
// when delivery fails; the caller re-registers and lands on the refresh
// branch.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	taken, err := s.userRepo.ExistsVerifiedUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	code, err := codegen.VerificationCode()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(verifyCodeTTL)

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	switch {
	case err == nil:
		if user.IsVerified {
			return nil, ErrEmailInUse
		}
		if err := s.userRepo.RefreshVerification(user.ID, passwordHash, code, expiry); err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
		user.VerifyCode = code
		user.VerifyCodeExpiry = expiry
	case errors.Is(err, repository.ErrUserNotFound):
		user = &models.User{
			Username:         req.Username,
			Email:            req.Email,
			PasswordHash:     passwordHash,
			VerifyCode:       code,
			VerifyCodeExpiry: expiry,
			IsVerified:       false,
			AcceptsMessages:  true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.sender.SendVerificationEmail(ctx, user.Email, user.Username, code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return user, nil
}

// VerifyCode confirms a pending verification code for a user.
//
// Expiry is checked before correctness so an expired-but-correct code is
// reported as expired, telling the caller to request a new one. Confirming
// an already verified account succeeds without touching the stored code.
func (s *AuthService) VerifyCode(req *VerifyRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsVerified {
		return user, nil
	}

	if time.Now().After(user.VerifyCodeExpiry) {
		return nil, ErrCodeExpired
	}

	if user.VerifyCode != req.Code {
		return nil, ErrCodeIncorrect
	}

	if err := s.userRepo.MarkVerified(user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true

	return user, nil
}

// Login authenticates a verified user and returns a JWT token
func (s *AuthService) Login(req *LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByIdentifier(req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	return s.generateToken(user)
}

// RefreshToken re-issues a JWT token from a still-valid one
func (s *AuthService) RefreshToken(tokenString string) (*TokenResponse, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.generateToken(user)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// UsernameAvailable reports whether no verified user holds the username
func (s *AuthService) UsernameAvailable(username string) (bool, error) {
	taken, err := s.userRepo.ExistsVerifiedUsername(username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Profile returns the authenticated user's profile with the shareable link
func (s *AuthService) Profile(userID uint) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &models.ProfileResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		IsVerified:      user.IsVerified,
		AcceptsMessages: user.AcceptsMessages,
		ProfileURL:      s.baseURL + "/u/" + user.Username,
	}, nil
}

// generateToken generates a JWT token for a user
func (s *AuthService) generateToken(user *models.User) (*TokenResponse, error) {
	expiresIn := time.Duration(s.jwtConfig.ExpireHours) * time.Hour

	claims := &JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "whisperbox",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtConfig.ExpireHours * 3600,
	}, nil
}
