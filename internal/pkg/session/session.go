package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/ReviewDesk/internal/pkg/env"
)

// KeyUserID holds the authenticated identity. The role is not stored: the
// user context middleware reloads the user on every request.
const KeyUserID = "user_id"

// Config describes where sessions are kept.
type Config struct {
	Host       string
	Port       int
	Password   string
	Database   int
	Expiration time.Duration
}

// ConfigFromEnv reads CACHE_* and SESSION_TTL.
func ConfigFromEnv() Config {
	return Config{
		Host:       env.GetEnv("CACHE_HOST", "localhost"),
		Port:       env.GetEnvInt("CACHE_PORT", 6379),
		Password:   env.GetEnv("CACHE_PASSWORD", ""),
		Database:   1,
		Expiration: env.GetEnvDuration("SESSION_TTL", time.Hour),
	}
}

// NewStore creates the session store. Sessions live in Redis when it answers
// a ping and in process memory otherwise.
func NewStore(cfg Config) *session.Store {
	sc := session.Config{
		CookieHTTPOnly: true,
		// CookieSecure:   true, // Enable in production with HTTPS
		Expiration:   cfg.Expiration,
		KeyLookup:    "cookie:session_id",
		KeyGenerator: uuid.NewString,
	}

	if reachable(cfg) {
		sc.Storage = redis.New(redis.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Password: cfg.Password,
			Database: cfg.Database, // cache and sessions use separate databases
			Reset:    false,
		})
		log.Infof("[Session] Using redis at %s:%d", cfg.Host, cfg.Port)
	} else {
		log.Warnf("[Session] Redis at %s:%d unreachable, keeping sessions in memory", cfg.Host, cfg.Port)
	}

	return session.New(sc)
}

// NewMemoryStore returns a store without external storage.
func NewMemoryStore() *session.Store {
	return session.New(session.Config{
		CookieHTTPOnly: true,
		KeyLookup:      "cookie:session_id",
		KeyGenerator:   uuid.NewString,
	})
}

func reachable(cfg Config) bool {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// Login stores the authenticated identity in a fresh session.
func Login(store *session.Store, c *fiber.Ctx, userID uint) error {
	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(KeyUserID, userID)
	return sess.Save()
}

// Logout destroys the session of the request.
func Logout(store *session.Store, c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}

// UserID returns the identity stored by Login, or 0 for anonymous requests.
func UserID(store *session.Store, c *fiber.Ctx) uint {
	sess, err := store.Get(c)
	if err != nil {
		return 0
	}
	if id, ok := sess.Get(KeyUserID).(uint); ok {
		return id
	}
	return 0
}
