package middleware

import "net/http"

// MaxRequestSize caps the request body. Oversized bodies surface as read
// errors inside the handlers rather than being rejected up front, which
// keeps streaming uploads working until the cap is actually hit.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
