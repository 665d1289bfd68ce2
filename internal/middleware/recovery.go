package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"puja-backend/pkg/utils"
)

// PanicRecovery turns a panicking handler into a 500 JSON response
// instead of a dropped connection. The stack goes to the log only.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[HTTP] panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
