package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/portfolio/backend/internal/models"
)

// Recoverer turns a handler panic into an internal_error envelope. The stack
// trace is echoed to the client only when dev is set.
func Recoverer(dev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				stack := debug.Stack()
				log.Printf("[Recoverer] request=%s panic: %v\n%s", middleware.GetReqID(r.Context()), rvr, stack)

				resp := models.NewErrorResponse(models.CodeInternal, "Server error")
				if dev {
					resp.Detail = fmt.Sprint(rvr)
					resp.Stack = string(stack)
				}
				writeJSON(w, http.StatusInternalServerError, resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the baseline response headers for an API that is
// never framed.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		h.Set("X-DNS-Prefetch-Control", "off")
		next.ServeHTTP(w, r)
	})
}
