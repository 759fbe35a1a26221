package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "food-ordering"

// Claims are carried by the auth cookie. Role and store are informational;
// the user is always reloaded from storage.
type Claims struct {
	jwt.RegisteredClaims
	Role    models.Role `json:"role"`
	StoreID *int64      `json:"store_id,omitempty"`
}

type AuthService struct {
	users  core.IUserRepo
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
	mylog  logger.Logger
}

func NewAuthService(users core.IUserRepo, secret string, ttl time.Duration, mylog logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		clock:  time.Now,
		mylog:  mylog,
	}
}

func (as *AuthService) TTL() time.Duration {
	return as.ttl
}

// Login checks the credentials and returns a signed token for the user.
func (as *AuthService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	mylog := as.mylog.Action("login")

	if username == "" || password == "" {
		return "", models.User{}, core.ErrInvalidLogin
	}

	user, err := as.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			mylog.Info("Unknown username", "username", username)
			return "", models.User{}, core.ErrInvalidLogin
		}
		mylog.Error("Failed to load user", err)
		return "", models.User{}, fmt.Errorf("cannot load user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		mylog.Info("Wrong password", "username", username)
		return "", models.User{}, core.ErrInvalidLogin
	}

	token, err := as.IssueToken(user)
	if err != nil {
		mylog.Error("Failed to sign token", err)
		return "", models.User{}, err
	}
	return token, user, nil
}

func (as *AuthService) IssueToken(user models.User) (string, error) {
	now := as.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.ttl)),
		},
		Role:    user.Role,
		StoreID: user.StoreID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
}

// Resolve returns the user referenced by token. Invalid, expired or dangling
// tokens yield ErrUnauthorized.
func (as *AuthService) Resolve(ctx context.Context, token string) (models.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return as.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(as.clock),
	)
	if err != nil || !parsed.Valid {
		return models.User{}, core.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.User{}, core.ErrUnauthorized
	}

	user, err := as.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return models.User{}, core.ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("cannot load user: %w", err)
	}
	return user, nil
}
