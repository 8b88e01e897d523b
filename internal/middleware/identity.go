package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
    ctxUserID = "user_id"
    ctxRole   = "role"
)

// Subject returns the authenticated subject stored by JWTAuth, or "guest"
// when the request carries no valid token.
func Subject(c echo.Context) string {
    if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
        return s
    }
    return "guest"
}
