package config

// Redis backs review storage (STORAGE_DRIVER=redis), catalog response
// caching and rate limiting.  If the server is unreachable at startup
// NewRedisClient returns nil; caching and rate limiting then pass through
// and the redis storage driver refuses to start.

import (
    "context"
    "crypto/tls"
    "log/slog"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach Redis.
type RedisConfig struct {
    Addr      string // host:port
    Password  string
    DB        int
    TLS       bool
    KeyPrefix string // namespace for stored review keys
}

// LoadRedisConfig reads REDIS_HOST/REDIS_PORT (preferred) or REDIS_ADDR,
// plus REDIS_PASSWORD, REDIS_DB, REDIS_TLS and REDIS_KEY_PREFIX.
func LoadRedisConfig() RedisConfig {
    host := getenv("REDIS_HOST", "")
    port := getenv("REDIS_PORT", "")
    addr := getenv("REDIS_ADDR", "localhost:6379")
    if host != "" && port != "" {
        addr = host + ":" + port
    }
    dbNum, err := strconv.Atoi(getenv("REDIS_DB", "0"))
    if err != nil {
        dbNum = 0
    }
    tlsEnv := getenv("REDIS_TLS", "")
    return RedisConfig{
        Addr:      addr,
        Password:  getenv("REDIS_PASSWORD", ""),
        DB:        dbNum,
        TLS:       strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
        KeyPrefix: getenv("REDIS_KEY_PREFIX", ""),
    }
}

// NewRedisClient dials Redis and pings it with a short timeout.  It
// returns nil when the server cannot be reached.
func NewRedisClient(cfg RedisConfig, log *slog.Logger) *redis.Client {
    var tlsConf *tls.Config
    if cfg.TLS {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      cfg.Addr,
        Password:  cfg.Password,
        DB:        cfg.DB,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Warn("redis unavailable", "addr", cfg.Addr, "err", err)
        _ = client.Close()
        return nil
    }
    return client
}
