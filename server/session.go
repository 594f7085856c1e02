package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the thin session token: a display name and expiry,
// nothing more. This gates the UI, it is not an authorization system.
type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

const sessionTTL = 24 * time.Hour

func (s *Server) issueToken(name string) (string, error) {
	claims := &sessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name required")
		return
	}

	token, err := s.issueToken(strings.TrimSpace(req.Name))
	if err != nil {
		s.log.Error().Err(err).Msg("issue session token")
		s.respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// requireSession validates the bearer token on everything under /api
// except session creation and health.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			s.respondError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			s.respondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		next.ServeHTTP(w, r)
	})
}
