package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupInput is the deserialized registration payload.
type SignupInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// AuthService handles signup, login and bearer-token verification.
type AuthService struct {
	logger   zerolog.Logger
	userRepo *database.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(userRepo *database.UserRepo, secret string, tokenTTL time.Duration) *AuthService {
	logger := log.With().Str("serviceName", "authService").Logger()

	return &AuthService{
		logger:   logger,
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a user with a bcrypt password hash. Duplicate
// username or email surfaces as Conflict through the unique indexes.
func (s *AuthService) Register(input SignupInput) (*models.User, error) {
	if input.Username == "" {
		return nil, errs.NewValidationError("username", "username must not be empty")
	}
	if input.Email == "" {
		return nil, errs.NewValidationError("email", "email must not be empty")
	}
	if len(input.Password) < 8 {
		return nil, errs.NewValidationError("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalError("hashing password")
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Add(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("a user with this username or email already exists")
		}
		return nil, errs.NewStorageError("create", "user", err)
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a signed bearer token.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewUnauthorizedError("invalid credentials")
		}
		return "", errs.NewStorageError("find", "user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", errs.NewUnauthorizedError("invalid credentials")
	}
	return s.issueToken(user.ID)
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalError("signing token")
	}
	return signed, nil
}

// VerifyToken parses a bearer token and returns the user ID it carries.
func (s *AuthService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errs.NewUnauthorizedError("invalid or expired token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, errs.NewUnauthorizedError("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.NewUnauthorizedError("invalid token subject")
	}
	return userID, nil
}
