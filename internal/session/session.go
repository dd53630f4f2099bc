// Package session issues and verifies the bearer tokens that separate the
// admin dashboard from the client portal.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"craftmotion/studio-api/internal/apperr"
)

// Role determines which mutations a caller may perform.
type Role string

const (
	// RoleAdmin is a studio team member: full dashboard access.
	RoleAdmin Role = "admin"
	// RoleClient is a portal user: review actions and commenting only.
	RoleClient Role = "client"
)

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller attached to a request.
type Identity struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a token manager. Secret must be non-empty.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), expiry: 24 * time.Hour}
}

// Issue signs a token for the given subject.
func (m *Manager) Issue(subjectID uuid.UUID, name string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a token and resolves the caller identity.
func (m *Manager) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.Forbidden, "unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Forbidden, err, "invalid session token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.Forbidden, "invalid session token")
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Wrap(apperr.Forbidden, err, "invalid session subject")
	}

	return &Identity{ID: subject, Name: claims.Name, Role: claims.Role}, nil
}

// HashPassword hashes a portal or dashboard password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
