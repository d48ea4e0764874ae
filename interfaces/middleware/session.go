package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextSIDKey is the gin context key the resolved session id is stored
// under.
const ContextSIDKey = "sid"

// SessionHeader is the custom header alternative to the Authorization
// bearer token.
const SessionHeader = "X-Session"

var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)

// Session resolves the caller's session id and stores it in the context.
// Handlers treat an absent id as an unauthenticated request; no session is
// created here.
func Session(cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if sid := ResolveSID(ctx.Request, cookieName); sid != "" {
			ctx.Set(ContextSIDKey, sid)
		}
		ctx.Next()
	}
}

// ResolveSID extracts the session id with fixed precedence: Authorization
// bearer token, then the X-Session header, then the session cookie. A
// request carrying both a bearer token and a cookie uses the bearer token.
func ResolveSID(r *http.Request, cookieName string) string {
	if m := bearerPattern.FindStringSubmatch(r.Header.Get("Authorization")); m != nil {
		return strings.TrimSpace(m[1])
	}
	if xs := r.Header.Get(SessionHeader); xs != "" {
		return strings.TrimSpace(xs)
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SID returns the resolved session id from the context, or "".
func SID(ctx *gin.Context) string {
	return ctx.GetString(ContextSIDKey)
}
