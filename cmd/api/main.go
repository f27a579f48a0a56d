package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"dashboard/internal/config"
	"dashboard/internal/db"
	"dashboard/internal/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.Auth.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer dbConn.Close()

	if err := db.Init(dbConn); err != nil {
		log.Fatalf("db init: %v", err)
	}
	log.Println("Database initialized")

	h := handlers.NewHandler(dbConn, cfg.Auth)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handlers.NewRouter(h, cfg.Auth.Secret),
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
