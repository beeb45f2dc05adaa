package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go-chms/internal/config"
	"go-chms/internal/features/module"
	"go-chms/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seed_modules writes the built-in module list into the durable mirror so a
// fresh deployment starts from it when the GraphQL server is unreachable.
// An existing mirror is left alone.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store storage.Store
	switch cfg.StoreDriver {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal(err)
		}
		defer client.Disconnect(context.Background())
		store = storage.NewMongoStore(client.Database(cfg.DBName))
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		store = storage.NewRedisStore(client)
	default:
		log.Fatalf("STORE_DRIVER=%s is not persistent, nothing to seed", cfg.StoreDriver)
	}

	if _, err := store.Get(ctx, storage.KeyModules); err == nil {
		log.Println("Module mirror already present, skipping")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Fatalf("Failed to read module mirror: %v", err)
	}

	modules := module.DefaultModules()
	if err := module.WriteMirror(ctx, store, modules); err != nil {
		log.Fatalf("Failed to seed modules: %v", err)
	}
	log.Printf("Seeded %d modules into the %s store", len(modules), cfg.StoreDriver)
}
