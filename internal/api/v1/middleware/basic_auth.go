package middleware

import (
	"crypto/subtle"
	"net/http"

	"moodlequiz/pkg/response"
)

func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				response.ErrorWithData(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
