package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/config"
	"github.com/stayhub/stayhub-api/internal/domain/listing"
	"github.com/stayhub/stayhub-api/internal/pkg/database"
	"github.com/stayhub/stayhub-api/internal/pkg/imaging"
	"github.com/stayhub/stayhub-api/internal/pkg/storage"
)

const popTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().Msg("Starting photo-worker")

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}

	processor := imaging.NewProcessor(imaging.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("photo-worker stopped")
			return
		default:
		}

		result, err := rdb.BRPop(ctx, popTimeout, listing.ThumbnailQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error().Err(err).Msg("Redis error while waiting for jobs")
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [queue, value]
		if len(result) != 2 {
			continue
		}
		key := result[1]

		start := time.Now()
		if err := processOne(ctx, store, processor, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Thumbnail generation failed")
			continue
		}
		log.Info().
			Str("key", key).
			Dur("took", time.Since(start)).
			Msg("Thumbnails generated")
	}
}

func processOne(ctx context.Context, store storage.Storage, processor *imaging.Processor, key string) error {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	variants, err := processor.Process(key, data)
	if err != nil {
		return err
	}

	for _, v := range variants {
		if err := store.Put(ctx, v.Key, bytes.NewReader(v.Data), v.ContentType); err != nil {
			return err
		}
	}
	return nil
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.S3Endpoint == "" && cfg.S3AccessKey == "" {
		return storage.NewLocalStorage("./uploads", cfg.S3PublicURL)
	}
	return storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
