// Command codewizard-server is the backend the CodeWizard client talks to.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KpathaK21/CodeWizard/internal/config"
	"github.com/KpathaK21/CodeWizard/internal/logging"
	"github.com/KpathaK21/CodeWizard/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	flag.Parse()

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := cfg.Logging
	logCfg.Output = cfg.Server.LogOutput
	closer := logging.Init(logCfg)
	defer closer.Close()

	gin.SetMode(gin.ReleaseMode)

	if err := server.EnsureModelsFile(cfg.Server.ModelsFile); err != nil {
		logrus.WithError(err).Warn("could not create models file, serving built-in catalog")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server.ModelsFile, nil)
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("backend stopped")
		os.Exit(1)
	}
	logrus.Info("backend shut down")
}
