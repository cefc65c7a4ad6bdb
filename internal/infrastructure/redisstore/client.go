// Package redisstore implementa los almacenes de recuperación sobre Redis.
// El vencimiento lo hace Redis (PX), por eso Sweep no tiene trabajo pendiente.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Namespaces de claves.
const (
	nsCode     = "otp"
	nsToken    = "reset_token"
	nsVerified = "otp_verified"
)

// Options conexión a Redis.
type Options struct {
	Addrs    []string
	Password string
	DB       int
}

// NewClient abre un cliente single o cluster según la cantidad de direcciones y hace PING.
func NewClient(ctx context.Context, opts Options) (redis.UniversalClient, error) {
	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("redis: sin direcciones")
	}
	var rdb redis.UniversalClient
	if len(opts.Addrs) > 1 {
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    opts.Addrs,
			Password: opts.Password,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:     opts.Addrs[0],
			Password: opts.Password,
			DB:       opts.DB,
		})
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func key(namespace, id string) string {
	return namespace + ":" + id
}
