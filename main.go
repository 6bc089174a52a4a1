package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/scheduler"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

type store interface {
	storage.IStorage
	Ping(ctx context.Context) error
}

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger, err := logging.SetupLogging(envConfig.Log.Level)
	if err != nil {
		logrus.WithError(err).Fatal("logging.SetupLogging")
		return
	}
	logger.Info("ledger-server starting")

	var dataStore store
	switch envConfig.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("storage.memory: data is lost on exit")
		dataStore = memstore.New()
	default:
		dbStorage, err := storage.NewStorage(envConfig.ConnectionDetails())
		if err != nil {
			logger.WithError(err).Fatal("storage.NewStorage")
			return
		}
		defer dbStorage.Close()
		dataStore = dbStorage
	}

	ops := operator.NewOperatorDelegator(dataStore, logger, envConfig.Operator.Workers, envConfig.Operator.QueueSize)
	ops.Start()
	defer ops.Stop()

	svc := service.NewService(dataStore, ops, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.HTTP.Port,
			Service: svc,
			Storage: dataStore,
		}
		return httpRest.Serve(ctx)
	})
	if envConfig.Scheduler.Enabled {
		group.Go(func() error {
			return scheduler.NewSweeper(svc.Recurring, envConfig.Scheduler.Interval, nil, logger).Run(ctx)
		})
	}

	if err = group.Wait(); err != nil {
		logger.WithError(err).Error("ledger-server stopped")
		return
	}
	logger.Info("ledger-server stopped")
}
