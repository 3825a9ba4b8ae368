package infra

import (
	"github.com/redis/go-redis/v9"

	"github.com/menezmethod/helpdesk/internal/config"
)

// NewRedis returns a client for the session store. It does not connect
// until first use.
func NewRedis(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
