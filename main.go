package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/KpathaK21/CodeWizard/internal/backend"
	"github.com/KpathaK21/CodeWizard/internal/catalog"
	"github.com/KpathaK21/CodeWizard/internal/config"
	"github.com/KpathaK21/CodeWizard/internal/credentials"
	"github.com/KpathaK21/CodeWizard/internal/db"
	"github.com/KpathaK21/CodeWizard/internal/logging"
	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/KpathaK21/CodeWizard/internal/session"
	"github.com/KpathaK21/CodeWizard/internal/styles"
	"github.com/KpathaK21/CodeWizard/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	flag.Parse()

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	closer := logging.Init(cfg.Logging)
	defer closer.Close()

	conn, err := db.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer conn.Close()

	creds, err := credentials.Open(conn)
	if err != nil {
		return err
	}

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	cat := catalog.New()
	sess := session.New(session.Config{
		Mode:     models.Mode(cfg.Session.Mode),
		Provider: cfg.Session.Provider,
		Model:    cfg.Session.Model,
	}, creds, cat, client)

	logrus.WithFields(logrus.Fields{
		"backend": client.BaseURL(),
		"session": sess.ID(),
	}).Info("starting CodeWizard")

	styles.InitTheme()
	p := ui.NewProgram(ui.Options{
		Session:     sess,
		Credentials: creds,
		Catalog:     cat,
		Lister:      client,
		BackendURL:  client.BaseURL(),
	})
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
