package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/taskboard/taskboard_server/internal/app"
	"github.com/taskboard/taskboard_server/internal/config"
	"github.com/taskboard/taskboard_server/internal/lib/logger/handlers/logruspretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env, cfg.LogsPath)

	log.WithField("config", cfg).Info("Application start!")

	application, err := app.New(cfg, log)
	if err != nil {
		panic(err)
	}

	application.Run()

	<-application.Done
	log.Info("Application stopped")
}

func setupLogger(env string, logFilePath string) *logrus.Entry {
	var log = logrus.New()

	switch env {
	case envLocal:
		log.SetLevel(logrus.DebugLevel)
		return setupPrettySlog(log)
	case envDev:
		setupFileOutput(log, logFilePath)
		log.SetLevel(logrus.InfoLevel)
	case envProd:
		setupFileOutput(log, logFilePath)
		log.SetLevel(logrus.WarnLevel)
	default:
		setupFileOutput(log, logFilePath)
		log.SetLevel(logrus.WarnLevel)
	}

	return logrus.NewEntry(log)
}

func setupFileOutput(log *logrus.Logger, logFilePath string) {
	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		panic(err)
	}

	log.SetOutput(logFile)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
}

func setupPrettySlog(log *logrus.Logger) *logrus.Entry {
	prettyHandler := logruspretty.NewPrettyHandler(os.Stdout)
	log.SetFormatter(prettyHandler)
	return logrus.NewEntry(log)
}
