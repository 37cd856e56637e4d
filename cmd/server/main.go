package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kinoflow/cinema-reservation/internal/config"
	"github.com/kinoflow/cinema-reservation/internal/database"
	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/handler"
	"github.com/kinoflow/cinema-reservation/internal/queue"
	"github.com/kinoflow/cinema-reservation/internal/repository"
	"github.com/kinoflow/cinema-reservation/internal/router"
)

func main() {
	// Load .env when present; in containers configuration comes from real
	// environment variables and the file is simply absent.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response caching disabled")
	}

	store := repository.NewStore(db)
	eng := engine.New(store)

	deps := router.Deps{
		Cfg:          cfg,
		Redis:        rdb,
		Auth:         handler.NewAuthHandler(cfg, repository.NewUserRepo(db)),
		Movies:       handler.NewMovieHandler(repository.NewMovieRepo(db)),
		Sessions:     handler.NewSessionHandler(repository.NewSessionRepo(db), store),
		Reservations: handler.NewReservationHandler(eng, store),
	}

	// Reservation events land on a durable queue; the consumer reconnects
	// on its own, so a broker outage never blocks startup.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, deps)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
