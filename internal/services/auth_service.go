package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mealmart/internal/caching"
	"mealmart/internal/common"
	"mealmart/internal/models"
	"mealmart/internal/repositories"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	// Five failed logins per address-of-record lock the email out for the
	// attempt window.
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

type AuthServiceInterface interface {
	Register(ctx context.Context, email, password, name string, role models.Role, country models.Country) (*models.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseAccessToken(tokenString string) (models.Actor, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	cache     caching.CacheService
	jwtSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, cache caching.CacheService, jwtSecret []byte) AuthServiceInterface {
	return &authService{
		userRepo:  userRepo,
		cache:     cache,
		jwtSecret: jwtSecret,
	}
}

func refreshTokenKey(token string) string {
	return "refresh:" + token
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + email
}

func (s *authService) Register(ctx context.Context, email, password, name string, role models.Role, country models.Country) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.ValidationError("a valid email is required")
	}
	if len(password) < 8 {
		return nil, common.ValidationError("password must be at least 8 characters")
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, common.ValidationError("role must be one of: ADMIN, MANAGER, MEMBER")
	}
	if !country.Valid() {
		return nil, common.ValidationError("country must be one of: INDIA, AMERICA")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, common.UnavailableError("check email", err)
	}
	if existing != nil {
		return nil, common.InvalidStateError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.UnavailableError("hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Country:      country,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, common.UnavailableError("create user", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	attempts, err := s.cache.Increment(ctx, loginAttemptsKey(email), loginAttemptWindow)
	if err == nil && attempts > maxLoginAttempts {
		return nil, common.ForbiddenError("too many login attempts, try again later")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, common.UnavailableError("fetch user", err)
	}
	// Same answer for unknown email and wrong password.
	if user == nil {
		return nil, common.ForbiddenError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ForbiddenError("invalid email or password")
	}

	_ = s.cache.Delete(ctx, loginAttemptsKey(email))
	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the presented one is burned and a new
// pair is issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	var userID uuid.UUID
	if err := s.cache.Get(ctx, refreshTokenKey(refreshToken), &userID); err != nil {
		return nil, common.ForbiddenError("invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, common.UnavailableError("fetch user", err)
	}
	if user == nil {
		return nil, common.ForbiddenError("invalid or expired refresh token")
	}

	if err := s.cache.Delete(ctx, refreshTokenKey(refreshToken)); err != nil {
		return nil, common.UnavailableError("revoke refresh token", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.cache.Delete(ctx, refreshTokenKey(refreshToken)); err != nil {
		return common.UnavailableError("revoke refresh token", err)
	}
	return nil
}

// ParseAccessToken verifies the JWT and reconstructs the acting identity
// from its claims.
func (s *authService) ParseAccessToken(tokenString string) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ForbiddenError("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, common.ForbiddenError("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, common.ForbiddenError("invalid access token")
	}
	userIDStr, _ := claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)
	countryStr, _ := claims["country"].(string)

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return models.Actor{}, common.ForbiddenError("invalid access token")
	}
	role, err := models.ParseRole(roleStr)
	if err != nil {
		return models.Actor{}, common.ForbiddenError("invalid access token")
	}
	country, err := models.ParseCountry(countryStr)
	if err != nil {
		return models.Actor{}, common.ForbiddenError("invalid access token")
	}
	return models.Actor{ID: userID, Role: role, Country: country}, nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"country": string(user.Country),
		"iat":     now.Unix(),
		"exp":     now.Add(accessTokenTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, common.UnavailableError("sign access token", err)
	}

	refreshToken := uuid.NewString()
	if err := s.cache.Set(ctx, refreshTokenKey(refreshToken), user.ID, refreshTokenTTL); err != nil {
		return nil, common.UnavailableError("store refresh token", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTokenTTL.Seconds()),
		RefreshToken: refreshToken,
		IssuedAt:     now,
		User:         user,
	}, nil
}
