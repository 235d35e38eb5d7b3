package eventbus

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// New builds the bus selected by opts. The redis bus pings the server
// first and starts forwarding remote events in the background; its client
// is closed together with the bus.
func New(ctx context.Context, opts *Options, dispatcher Dispatcher) (Bus, error) {
	if opts == nil || opts.Type == TypeLocal || opts.Type == "" {
		return NewLocalBus(dispatcher), nil
	}
	if opts.Type != TypeRedis {
		return nil, fmt.Errorf("unknown event bus type %q", opts.Type)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        opts.RedisAddr,
		Password:    opts.RedisPassword,
		DB:          opts.RedisDB,
		DialTimeout: opts.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Infow("Redis event bus connected", "addr", opts.RedisAddr, "prefix", opts.ChannelPrefix)

	bus := &ownedRedisBus{RedisBus: NewRedisBus(client, opts.ChannelPrefix, dispatcher), client: client}
	go func() {
		if err := bus.Forward(context.WithoutCancel(ctx)); err != nil {
			log.Warnw("Remote event forwarding stopped", "error", err)
		}
	}()
	return bus, nil
}

type ownedRedisBus struct {
	*RedisBus
	client *goredis.Client
}

func (b *ownedRedisBus) Close() error {
	err := b.RedisBus.Close()
	if cerr := b.client.Close(); err == nil {
		err = cerr
	}
	return err
}
