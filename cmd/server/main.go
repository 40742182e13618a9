package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/config"
	"github.com/farhandp/coworking-book/internal/database"
	"github.com/farhandp/coworking-book/internal/handler"
	"github.com/farhandp/coworking-book/internal/queue"
	"github.com/farhandp/coworking-book/internal/repository"
	"github.com/farhandp/coworking-book/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)
	notifications := repository.NewNotificationRepo(db)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, tokens, nil),
		Reservations:  handler.NewReservationHandler(reservations, rooms, notifications),
		AdminRes:      handler.NewAdminReservationHandler(reservations),
		Rooms:         handler.NewRoomHandler(rooms, notifications),
		Payments:      handler.NewPaymentHandler(payments, reservations, notifications),
		Reviews:       handler.NewReviewHandler(reviews, reservations),
		Notifications: handler.NewNotificationHandler(notifications),
		AdminUsers:    handler.NewAdminUserHandler(cfg, users, tokens),
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, cfg, rdb, h)

	// Background consumer keeps its own reconnect loop.
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	log.Printf("starting server on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
