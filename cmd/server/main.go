package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/maison-order-desk/internal/config"
	"github.com/iliyamo/maison-order-desk/internal/handler"
	"github.com/iliyamo/maison-order-desk/internal/queue"
	"github.com/iliyamo/maison-order-desk/internal/repository"
	"github.com/iliyamo/maison-order-desk/internal/router"
	queue_publisher "github.com/iliyamo/maison-order-desk/internal/service"
	"github.com/iliyamo/maison-order-desk/internal/store"
)

func main() {
	// Best effort: a missing .env just means the environment is
	// already populated (containers, systemd units).
	_ = godotenv.Load()

	cfg := config.Load()
	rateCfg := config.LoadLoginRateConfig()

	st := store.New(cfg.StorePath)

	var sessions repository.SessionStore
	if cfg.SessionBackend == "memory" {
		sessions = repository.NewMemorySessionStore(nil)
	} else {
		sessions = repository.NewPersistedSessionStore(st)
	}

	auth := &repository.AuthRepo{
		Store:       st,
		Sessions:    sessions,
		SetupSecret: cfg.SetupSecret,
		MaxSlots:    cfg.MaxCredentials,
		BcryptCost:  cfg.BcryptCost,
		SessionTTL:  cfg.SessionTTL,
	}
	orders := repository.NewOrderRepo(st, repository.MergePolicy(cfg.MergePolicy))
	snapshots := repository.NewSnapshotRepo(st)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; login rate limiting falls back to in-process buckets")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAPI(e,
		auth,
		handler.NewOrderHandler(orders),
		handler.NewPinHandler(auth, cfg.SecureCookies),
		handler.NewValidateHandler(snapshots, queue_publisher.PublishShoppingListValidated),
		rateCfg,
		rdb,
	)

	if cfg.ConsumerOn {
		go func() {
			if err := queue.StartProcurementConsumer(); err != nil {
				log.Printf("procurement consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StorePath)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
