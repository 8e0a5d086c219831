package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

const (
	sessionTTL = 7 * 24 * time.Hour
	resetTTL   = 15 * time.Minute

	resetPurpose = "password_reset"

	bcryptCost = 12
)

// SessionPrincipal is the identity carried inside a session token.
type SessionPrincipal struct {
	UserID   int64
	Username string
}

// AuthService issues and verifies password hashes and JWT tokens.
type AuthService struct {
	secret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{secret: []byte(jwtSecret)}
}

// HashPassword hashes a clear-text password with bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func (s *AuthService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueSession creates a signed session token valid for seven days.
func (s *AuthService) IssueSession(userID int64, username string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    "wimf",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseSession verifies a session token and returns its principal.
func (s *AuthService) ParseSession(tokenStr string) (*SessionPrincipal, error) {
	claims := &sessionClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return &SessionPrincipal{UserID: claims.UserID, Username: claims.Username}, nil
}

// IssueResetToken creates a short-lived token sent by email for a password
// reset. It carries a purpose claim so a session token cannot be replayed
// against the reset endpoint.
func (s *AuthService) IssueResetToken(userID int64) (string, error) {
	now := time.Now()
	claims := resetClaims{
		UserID:  userID,
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTTL)),
			Issuer:    "wimf",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseResetToken verifies a reset token and returns the user id it was
// issued for. Tokens without the reset purpose are rejected.
func (s *AuthService) ParseResetToken(tokenStr string) (int64, error) {
	claims := &resetClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return 0, err
	}
	if claims.Purpose != resetPurpose {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s *AuthService) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

type sessionClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	UserID  int64  `json:"id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}
