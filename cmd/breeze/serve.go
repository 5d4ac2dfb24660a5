package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/config"
	"github.com/fwojciec/breeze/gateway"
	"github.com/fwojciec/breeze/logging"
	"github.com/fwojciec/breeze/openweather"
	"github.com/fwojciec/breeze/redis"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the weather Tool Gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadGateway()
			if err != nil {
				return err
			}
			log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Gateway, log zerolog.Logger) error {
	weather, opts, closeFn, err := weatherService(cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	opts = append(opts,
		gateway.WithLogger(log),
		gateway.WithCORSOrigins(cfg.CORSOrigins...),
		gateway.WithMetrics(cfg.MetricsEnabled),
	)
	return gateway.NewServer(weather, opts...).ListenAndServe(ctx, cfg.Addr)
}

// weatherService builds the upstream client, wrapped in a redis cache when
// REDIS_URL is set.
func weatherService(cfg *config.Gateway, log zerolog.Logger) (breeze.WeatherService, []gateway.ServerOption, func(), error) {
	upstream := openweather.New(cfg.OpenWeatherAPIKey,
		openweather.WithBaseURL(cfg.OpenWeatherBaseURL),
		openweather.WithLang(cfg.Lang),
		openweather.WithTimeout(cfg.UpstreamTimeout),
	)
	if cfg.RedisURL == "" {
		return upstream, nil, func() {}, nil
	}

	rdb, err := redis.Open(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	cache := redis.NewCache(rdb, upstream,
		redis.WithTTL(cfg.CacheTTL),
		redis.WithKeyPrefix(fmt.Sprintf("breeze:weather:%s:", cfg.Lang)),
		redis.WithLogger(log),
	)
	log.Info().Dur("ttl", cfg.CacheTTL).Msg("weather cache enabled")
	opts := []gateway.ServerOption{gateway.WithReadinessCheck("redis", cache.Ping)}
	return cache, opts, func() { _ = rdb.Close() }, nil
}
