package redis

import (
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/redis.go -package=redismocks -source=interface.go

// Client is the redis surface the page cache uses. It is satisfied by both
// single-node and cluster clients.
type Client interface {
	redis.UniversalClient
}
