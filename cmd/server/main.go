package main

import (
	"log"

	"agora/internal/config"
	"agora/internal/db"
	"agora/internal/redisstore"
	"agora/internal/router"
	"agora/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer st.Close()

	r, err := router.New(cfg, st)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	log.Printf("Agora server starting on :%s (store: %s)", cfg.Port, cfg.StoreDriver)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverRedis {
		return redisstore.New(cfg.RedisURL)
	}
	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return db.NewStore(gdb), nil
}
