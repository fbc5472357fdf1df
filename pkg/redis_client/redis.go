package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/schoolfleet/schoolfleet/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"

func Connect() error {
	address := util.GetEnvironmentVariable("SCHOOLFLEET_REDIS_ADDRESS", defaultConnectionAddress)
	password := util.GetEnvironmentVariable("SCHOOLFLEET_REDIS_PASSWORD", "")

	database := 0
	if value := util.GetEnvironmentVariable("SCHOOLFLEET_REDIS_DATABASE", ""); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		database = n
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	var err error
	QueueConnection, err = rmq.OpenConnectionWithRedisClient("schoolfleet", Client, nil)
	if err != nil {
		return err
	}

	return nil
}
