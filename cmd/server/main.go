package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agromaq/quotation-server/internal/auth"
	"github.com/agromaq/quotation-server/internal/bot"
	"github.com/agromaq/quotation-server/internal/config"
	"github.com/agromaq/quotation-server/internal/db"
	"github.com/agromaq/quotation-server/internal/server"
	"github.com/agromaq/quotation-server/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	if migrateOnlyFlag != nil && *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}

	cfg := config.Load()
	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	log.Printf("Starting server env=%s port=%s", cfg.Env, cfg.Port)

	admin := auth.Admin{User: cfg.AdminUser, Pass: cfg.AdminPass, PassHash: cfg.AdminPassHash}
	if !admin.Configured() {
		log.Println("ADMIN_USER/ADMIN_PASS not set; admin endpoints will refuse requests")
	}
	company := services.CompanyInfo{
		Name:    cfg.CompanyName,
		Email:   cfg.CompanyEmail,
		Phone:   cfg.CompanyPhone,
		Website: cfg.CompanyWebsite,
	}

	handler := server.New(dbConn, admin, company)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	botCtx, botCancel := context.WithCancel(context.Background())
	defer botCancel()
	if b, err := bot.New(cfg, dbConn, services.NewQuotationService(dbConn, company)); err != nil {
		log.Printf("telegram bot disabled: %v", err)
	} else if b != nil {
		go b.Run(botCtx)
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	botCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
