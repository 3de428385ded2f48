package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tally-server/src/models"
	"tally-server/src/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const TokenType = "Bearer"

var errInvalidCredentials = Unauthorized("Invalid username or password")

type AuthService struct {
	store    Store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(store Store, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{store: store, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// NewUser hashes the password and stores the user together with the default
// categories.
func NewUser(ctx context.Context, store Store, req models.RegisterRequest) (*models.User, error) {
	var details []string
	if !util.ValidateUsername(req.Username) {
		details = append(details, "username: must be 3-30 letters, digits, '.', '-' or '_'")
	}
	if !util.ValidateEmail(req.Email) {
		details = append(details, "email: must be a well-formed email address")
	}
	if !util.ValidatePassword(req.Password) {
		details = append(details, "password: must be at least 8 characters with upper and lower case letters, a digit and a symbol")
	}
	if len(details) > 0 {
		return nil, Validation(details...)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var created *models.User
	err = store.WithinTx(ctx, func(tx Store) error {
		created, err = tx.CreateUser(ctx, &models.User{
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PasswordHash: hashed,
		})
		if errors.Is(err, models.ErrDuplicateRecord) {
			return BusinessRule("Username or email is already taken")
		}
		if err != nil {
			return err
		}
		return seedDefaultCategories(ctx, tx, created.ID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	user, err := NewUser(ctx, s.store, req)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Registered user %s with id %d", user.Username, user.ID)
	return user, nil
}

// Login checks credentials and opens a session bound to a fresh token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ipAddress, userAgent string) (*models.TokenResponse, error) {
	user, err := s.store.GetUserByLogin(ctx, req.Username)
	if errors.Is(err, models.ErrRecordNotFound) {
		log.Printf("INFO: Login failed for unknown user %s", req.Username)
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		log.Printf("INFO: Login failed for user %d: bad password", user.ID)
		return nil, errInvalidCredentials
	}
	if !user.Active {
		return nil, Forbidden("Account is disabled")
	}

	now := s.now()
	if n, err := s.store.DeleteExpiredSessions(ctx, now); err != nil {
		log.Printf("ERROR: Failed to purge expired sessions: %v", err)
	} else if n > 0 {
		log.Printf("INFO: Purged %d expired sessions", n)
	}

	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := tx.CreateSession(ctx, &models.UserSession{
			UserID:    user.ID,
			JWTToken:  signed,
			ExpiresAt: expiresAt,
			IPAddress: ipAddress,
			UserAgent: userAgent,
		}); err != nil {
			return err
		}
		return tx.UpdateLastLogin(ctx, user.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	log.Printf("INFO: User %d logged in", user.ID)
	return &models.TokenResponse{Token: signed, TokenType: TokenType, ExpiresAt: time.Unix(expiresAt.Unix(), 0).UTC()}, nil
}

// Authenticate verifies the token signature and that its session is still
// open.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return models.Principal{}, Unauthorized("Invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Principal{}, Unauthorized("Invalid token claims")
	}
	userID, okID := claims["user_id"].(float64)
	username, okName := claims["username"].(string)
	jti, _ := claims["jti"].(string)
	if !okID || !okName {
		return models.Principal{}, Unauthorized("Invalid token claims")
	}

	_, err = s.store.GetActiveSession(ctx, tokenString, s.now())
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.Principal{}, Unauthorized("Session expired or revoked")
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("failed to load session: %w", err)
	}
	return models.Principal{UserID: int64(userID), Username: username, SessionID: jti}, nil
}

func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	err := s.store.InvalidateSession(ctx, tokenString)
	if errors.Is(err, models.ErrRecordNotFound) {
		return Unauthorized("Session expired or revoked")
	}
	return err
}

// LogoutAll closes every open session of the caller and returns how many.
func (s *AuthService) LogoutAll(ctx context.Context, p models.Principal) (int64, error) {
	n, err := s.store.InvalidateUserSessions(ctx, p.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to close sessions: %w", err)
	}
	log.Printf("INFO: Closed %d sessions for user %d", n, p.UserID)
	return n, nil
}

func (s *AuthService) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, p.UserID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, NotFound("User", "id", p.UserID)
	}
	return user, err
}
