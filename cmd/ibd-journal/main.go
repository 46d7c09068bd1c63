// cmd/ibd-journal/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mcp-ibd-journal/internal/models"
	"mcp-ibd-journal/internal/server"
)

var (
	transport = flag.String("transport", "http", "Transport mode: http")
	port      = flag.Int("port", 8012, "Port for HTTP transport")
	host      = flag.String("host", "0.0.0.0", "Host address")
	address   = flag.String("address", "", "Address (alias for host)")
	dbPath    = flag.String("db-path", "/data/ibd-journal.db", "Database path")
	version   = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("mcp-ibd-journal version 1.0.0")
		os.Exit(0)
	}

	// .env is optional; real env vars win either way.
	godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	hostAddr := *host
	if *address != "" {
		hostAddr = *address
	}

	config := &server.Config{
		Transport: *transport,
		Host:      hostAddr,
		Port:      *port,
		DBPath:    *dbPath,
		Profile:   profileFromEnv(),
	}

	srv, err := server.NewJournalServer(config, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		log.Info("received shutdown signal")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	log.Info("shutting down")
	cancel()
	if err := srv.Stop(); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}

// profileFromEnv reads the static dietary profile. The flags are avoid-list
// hints handed to the AI gateway for menu and ingredient scans.
func profileFromEnv() models.UserDietaryProfile {
	return models.UserDietaryProfile{
		AvoidsInsolubleFiber: envBool("DIET_AVOIDS_INSOLUBLE_FIBER"),
		AvoidsHighFODMAP:     envBool("DIET_AVOIDS_HIGH_FODMAP"),
		AvoidsDairy:          envBool("DIET_AVOIDS_DAIRY"),
		AvoidsSpicy:          envBool("DIET_AVOIDS_SPICY"),
		AvoidsFatty:          envBool("DIET_AVOIDS_FATTY"),
	}
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
