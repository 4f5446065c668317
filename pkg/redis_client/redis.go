package redis_client

import (
	"context"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/netex-validator/pkg/config"
)

var Client *redis.Client
var QueueConnection rmq.Connection

func Connect(cfg config.RedisConfig) error {
	options := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.Database,
	}
	if cfg.Password != "" {
		options.Password = cfg.Password
	}

	Client = redis.NewClient(options)

	statusCmd := Client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return err
	}

	QueueConnection, err = rmq.OpenConnectionWithRedisClient("netex-validator", Client, nil)
	if err != nil {
		return err
	}

	return nil
}
