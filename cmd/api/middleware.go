package main

import (
	"crypto/subtle"
	"net/http"
)

// apiKeyAuth rejects any request whose X-Api-Key header doesn't match key
// byte-for-byte in constant time, guarding the admin surface behind one
// shared secret.
func apiKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Api-Key")
			if len(got) == 0 || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
