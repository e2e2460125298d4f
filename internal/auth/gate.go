package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	cookieName   = "shortlinks_session"
	tokenExpiry  = 14 * 24 * time.Hour
	secretLength = 64
)

var ErrWrongPassword = errors.New("wrong password")

// Secret signs session tokens. It lives for one process; a restart makes
// every issued token invalid.
type Secret []byte

func NewSecret() (Secret, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return b, nil
}

type Options struct {
	// Password guards login. Empty means anyone may log in.
	Password string
	// PublicMode lets unauthenticated callers create links. Listing stays private.
	PublicMode bool
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Gate decides whether a presented session token is the one this process issued.
type Gate struct {
	secret     Secret
	password   string
	publicMode bool
	revoked    *cache.Cache
}

func NewGate(secret Secret, opts Options) *Gate {
	return &Gate{
		secret:     secret,
		password:   opts.Password,
		publicMode: opts.PublicMode,
		revoked:    cache.New(tokenExpiry, time.Hour),
	}
}

func (g *Gate) PublicMode() bool {
	return g.publicMode
}

// GenToken issues a fresh session token bound to the current secret.
func (g *Gate) GenToken() (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(g.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate reports whether token is a live session issued by this gate.
func (g *Gate) Validate(token string) bool {
	_, ok := g.session(token)
	return ok
}

// Login checks password and issues a session token on success.
func (g *Gate) Login(password string) (string, error) {
	if !g.checkPassword(password) {
		log.Warn().Msg("failed login attempt")
		return "", ErrWrongPassword
	}
	return g.GenToken()
}

// Logout invalidates token. It reports false if token was not a live session.
func (g *Gate) Logout(token string) bool {
	claims, ok := g.session(token)
	if !ok {
		return false
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		ttl = time.Second
	}
	g.revoked.Set(claims.ID, struct{}{}, ttl)

	return true
}

func (g *Gate) CanCreate(token string) bool {
	return g.publicMode || g.Validate(token)
}

// CanList ignores public mode: visitors may create links but not enumerate them.
func (g *Gate) CanList(token string) bool {
	return g.Validate(token)
}

func (g *Gate) checkPassword(password string) bool {
	if g.password == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(g.password), []byte(password)) == 1
}

// session parses token once and checks it against the revocation set.
func (g *Gate) session(token string) (*sessionClaims, bool) {
	if token == "" {
		return nil, false
	}

	claims, err := g.parse(token)
	if err != nil {
		log.Debug().Err(err).Msg("rejected session token")
		return nil, false
	}

	if _, revoked := g.revoked.Get(claims.ID); revoked {
		return nil, false
	}
	return claims, true
}

func (g *Gate) parse(tokenStr string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(g.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
