package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/config"
	"github.com/anime-dimension/api/internal/database"
	"github.com/anime-dimension/api/internal/handler"
	"github.com/anime-dimension/api/internal/middleware"
	"github.com/anime-dimension/api/internal/queue"
	"github.com/anime-dimension/api/internal/repository"
	"github.com/anime-dimension/api/internal/router"
	"github.com/anime-dimension/api/internal/service"
)

func main() {
	cfg := config.Load()

	catalogDB, err := database.Open(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("catalog db: %v", err)
	}
	defer catalogDB.Close()

	usersDB, err := database.Open(cfg.UsersDBPath)
	if err != nil {
		log.Fatalf("users db: %v", err)
	}
	defer usersDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if ok, err := database.TableExists(ctx, usersDB, "Users"); err != nil || !ok {
		log.Fatalf("table 'Users' not found in %s", cfg.UsersDBPath)
	}

	catalog, err := repository.NewCatalogRepo(ctx, catalogDB)
	if err != nil {
		log.Fatalf("catalog schema: %v", err)
	}
	users := repository.NewUserRepo(usersDB)
	sessions := repository.NewSessionRepo(usersDB)
	profiles := repository.NewProfileRepo(usersDB)
	notifications := repository.NewNotificationRepo(catalogDB)

	// Redis is optional: a nil client turns both middlewares into
	// pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache and rate limiting disabled")
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	var mailPublisher handler.MailPublisher
	if cfg.MailAPIKey != "" {
		mailPublisher = service.NewMailQueuePublisher(queue.BrokerURL())
		mail := service.NewMailClient(cfg.MailAPIKey)
		go func() {
			if err := queue.StartMailConsumer(func(ctx context.Context, ev queue.MailRequestedEvent) error {
				return mail.Send(ctx, ev.ToName, ev.ToEmail, ev.Subject, ev.Body)
			}); err != nil {
				log.Printf("mail consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("MAILCHANNELS_API_KEY not set, mail dispatch disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(router.CORS())
	e.Use(router.OriginLogger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(users, mailPublisher, cfg.SignupTokenSecret),
		handler.NewSessionHandler(users, sessions), rateLimit)
	router.RegisterCatalog(e, handler.NewAnimeHandler(catalog), handler.NewSuggestionsHandler(catalog), cache)
	router.RegisterUsers(e, handler.NewUsersHandler(users, sessions, profiles))
	router.RegisterNotifications(e, handler.NewNotificationsHandler(notifications), cache)
	router.RegisterWeb(e, handler.NewWebHandler(cfg.WwwRoot))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, catalog=%s, users=%s)", addr, cfg.Env, cfg.CatalogDBPath, cfg.UsersDBPath)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
