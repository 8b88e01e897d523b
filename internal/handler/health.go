package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movieclub/internal/service"
)

// HealthHandler reports liveness plus the state of optional dependencies.
type HealthHandler struct {
    Store *service.ReviewStore
    Redis *redis.Client // nil when Redis is not configured
}

// Health returns 200 while the process is serving.  Redis being down is
// reported but does not fail the check, since every Redis use degrades.
func (h *HealthHandler) Health(c echo.Context) error {
    redisState := "disabled"
    if h.Redis != nil {
        ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
        defer cancel()
        redisState = "up"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            redisState = "down"
        }
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "ok",
        "reviews": h.Store.Len(),
        "redis":   redisState,
    })
}
