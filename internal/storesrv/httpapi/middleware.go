package httpapi

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dvelarde/vigia/internal/common"
)

// withAuth checks the apikey header and, when a bearer token is present,
// verifies its signature and expiry. The apikey alone is enough for reads;
// writes additionally require a valid token.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(common.APIKeyHeaderName) != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		if r.Method != http.MethodGet {
			if err := s.verifyBearer(r); err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}

		next(w, r)
	}
}

func (s *Server) verifyBearer(r *http.Request) error {
	auth := r.Header.Get(common.AuthHeaderName)
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return common.ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
