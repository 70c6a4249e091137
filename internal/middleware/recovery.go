package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"ims-client/pkg/response"
)

// Recovery recovers from panics in the proxy pipeline and answers with the
// same structured JSON error shape the proxy uses for backend failures.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())

				response.Error(w, r, http.StatusInternalServerError,
					"Proxy Error",
					"The development proxy hit an internal error.",
					"")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
