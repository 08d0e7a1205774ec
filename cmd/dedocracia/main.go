package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dedocracia/dedocracia/internal/app"
	"github.com/dedocracia/dedocracia/internal/auth"
	"github.com/dedocracia/dedocracia/internal/config"
	"github.com/dedocracia/dedocracia/internal/logger"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("dedocracia %s\n", version)
		return
	}

	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	a, err := app.New(appLog, cfg, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)

	addr := fmt.Sprintf(":%d", cfg.Port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case sig := <-stop:
		appLog.Info("Shutting down", "signal", sig.String())
	}
}
