package cmd

import (
	"log"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/curaious/ticktrack/internal/api"
	"github.com/curaious/ticktrack/internal/api/authenticator"
	"github.com/curaious/ticktrack/internal/api/ratelimit"
	"github.com/curaious/ticktrack/internal/config"
	"github.com/curaious/ticktrack/internal/db"
	"github.com/curaious/ticktrack/internal/migrations"
	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run migrations and start the REST server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider("ticktrack", conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		conn := db.NewConn(conf)
		defer conn.Close()

		m, err := migrations.NewMigrator(conn)
		if err != nil {
			log.Fatalln("Unable to create migrator", err)
		}

		if err := m.Up(0); err != nil {
			log.Fatalln("Unable to run migrations", err)
		}

		auth, err := authenticator.New(conf)
		if err != nil {
			log.Fatalln("Unable to create authenticator", err)
		}
		if auth.VerifiesTokens() {
			slog.Info("Verifying bearer tokens", slog.String("firebase_project", conf.FIREBASE_PROJECT_ID))
		}

		limiter, closeLimiter := newLimiter(conf)
		defer closeLimiter()

		s := api.New(conf, services.NewServices(conn), auth, limiter)
		s.Start()
	},
}

// newLimiter picks Redis when configured so buckets are shared across instances.
func newLimiter(conf *config.Config) (ratelimit.Limiter, func()) {
	if !conf.RATE_LIMIT_ENABLED {
		return nil, func() {}
	}

	rate := ratelimit.Rate{Limit: conf.RATE_LIMIT, Period: conf.RATE_LIMIT_PERIOD}

	if conf.REDIS_ADDR != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.REDIS_ADDR,
			Password: conf.REDIS_PASSWORD,
			DB:       conf.REDIS_DB,
		})
		l := ratelimit.NewRedisLimiter(client, rate, "ticktrack:rate_limit:")
		slog.Info("Using redis rate limiter", slog.String("addr", conf.REDIS_ADDR))
		return l, func() {
			if err := l.Close(); err != nil {
				slog.Error("Unable to close redis client", slog.Any("error", err))
			}
		}
	}

	l := ratelimit.NewInMemoryLimiter(rate)
	return l, l.Stop
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
