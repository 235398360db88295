package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/maison-order-desk/internal/config"
)

// LoginRateLimit returns middleware that throttles PIN login attempts
// with a per-client-IP token bucket. With a Redis client the bucket
// lives in Redis so multiple instances share state; without one it
// falls back to an in-process bucket, which still protects a single
// instance. When the limiter itself errors the request is let through
// rather than failing login outright.
func LoginRateLimit(cfg config.LoginRateConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	local := newLocalBuckets(cfg)

	limiterScript := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_tokens = tonumber(ARGV[3])
        local interval_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local tokens = tonumber(state[1])
        local last_refill = tonumber(state[2])

        if tokens == nil or last_refill == nil then
            tokens = capacity
            last_refill = now_ms
        end

        if interval_ms > 0 and refill_tokens > 0 then
            local elapsed = math.max(0, now_ms - last_refill)
            local intervals = math.floor(elapsed / interval_ms)
            if intervals > 0 then
                tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                last_refill = last_refill + (intervals * interval_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local until_next = interval_ms - (now_ms - last_refill)
            if until_next < 0 then until_next = 0 end
            retry_after_ms = until_next
        end

        redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, retry_after_ms }
    `)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}

			var allowed bool
			var retryMs int64
			if rdb != nil {
				key := cfg.Prefix + ":ip:" + ip
				args := []interface{}{
					time.Now().UnixMilli(),
					cfg.Capacity,
					cfg.RefillTokens,
					cfg.RefillInterval.Milliseconds(),
					int64(cfg.TTL / time.Second),
				}
				vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
				if err != nil {
					allowed, retryMs = local.take(ip)
				} else if arr, ok := vals.([]interface{}); ok && len(arr) == 2 {
					allowed = asInt64(arr[0]) == 1
					retryMs = asInt64(arr[1])
				} else {
					allowed, retryMs = local.take(ip)
				}
			} else {
				allowed, retryMs = local.take(ip)
			}

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "too many login attempts",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// localBuckets is the in-process fallback: the same token-bucket
// algorithm keyed by IP, with idle entries dropped after the TTL.
type localBuckets struct {
	mu  sync.Mutex
	cfg config.LoginRateConfig
	m   map[string]*bucket
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

func newLocalBuckets(cfg config.LoginRateConfig) *localBuckets {
	return &localBuckets{cfg: cfg, m: map[string]*bucket{}}
}

// take consumes one token for ip, reporting whether the attempt is
// allowed and, if not, how long until the next refill in ms.
func (l *localBuckets) take(ip string) (bool, int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()

	for k, b := range l.m {
		if now.Sub(b.lastSeen) > l.cfg.TTL {
			delete(l.m, k)
		}
	}

	b := l.m[ip]
	if b == nil {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
		l.m[ip] = b
	}
	b.lastSeen = now

	if elapsed := now.Sub(b.lastRefill); elapsed >= l.cfg.RefillInterval {
		intervals := int(elapsed / l.cfg.RefillInterval)
		b.tokens += intervals * l.cfg.RefillTokens
		if b.tokens > l.cfg.Capacity {
			b.tokens = l.cfg.Capacity
		}
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * l.cfg.RefillInterval)
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}
	until := l.cfg.RefillInterval - now.Sub(b.lastRefill)
	if until < 0 {
		until = 0
	}
	return false, until.Milliseconds()
}
