// Package session issues and verifies the signed admin session cookie.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

const (
	CookieName = "admin_auth"
	TTL        = 7 * 24 * time.Hour
)

// Claims is the payload of an admin session token
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret       []byte
	isProduction bool
	now          func() time.Time
}

func NewManager(secret string, isProduction bool) *Manager {
	return &Manager{
		secret:       []byte(secret),
		isProduction: isProduction,
		now:          time.Now,
	}
}

// Issue signs a session for subject and sets it as an HttpOnly cookie.
func (m *Manager) Issue(w http.ResponseWriter, subject string) error {
	expirationTime := m.now().Add(TTL)
	claims := &Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  expirationTime,
		MaxAge:   int(TTL / time.Second),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticate verifies the session cookie of r.
func (m *Manager) Authenticate(r *http.Request) (*domain.Principal, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, errors.Join(domain.ErrUnauthorized, err)
	}
	if claims.Role != domain.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}

	return &domain.Principal{Subject: claims.Subject, Role: claims.Role}, nil
}

// Ensure interface compliance
var _ ports.Authenticator = (*Manager)(nil)
