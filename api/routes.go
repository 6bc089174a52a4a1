package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	accounthandler "github.com/carson-networks/ledger-server/internal/handlers/v1/account"
	categoryhandler "github.com/carson-networks/ledger-server/internal/handlers/v1/category"
	recurringhandler "github.com/carson-networks/ledger-server/internal/handlers/v1/recurring"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/status"
	transactionhandler "github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	transferhandler "github.com/carson-networks/ledger-server/internal/handlers/v1/transfer"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

type registrar interface {
	Register(api huma.API)
}

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Storage status.Pinger
}

// Handler builds the router: /status outside huma and every /v1 operation inside it.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Ledger Server", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	svc := r.Service
	handlers := []registrar{
		accounthandler.NewCreateAccountHandler(svc.Account),
		accounthandler.NewGetAccountHandler(svc.Account),
		accounthandler.NewListAccountsHandler(svc.Account),
		accounthandler.NewUpdateAccountHandler(svc.Account),
		accounthandler.NewDeactivateAccountHandler(svc.Account),
		accounthandler.NewReconcileBalanceHandler(svc.Account),
		accounthandler.NewBalanceHistoryHandler(svc.Account),

		transactionhandler.NewCreateTransactionHandler(svc.Transaction),
		transactionhandler.NewGetTransactionHandler(svc.Transaction),
		transactionhandler.NewListTransactionsHandler(svc.Transaction),
		transactionhandler.NewCategorizeHandler(svc.Transaction),
		transactionhandler.NewCategorizationHistoryHandler(svc.Transaction),

		transferhandler.NewCreateTransferHandler(svc.Transfer),
		transferhandler.NewGetTransferHandler(svc.Transfer),

		recurringhandler.NewCreateRecurringHandler(svc.Recurring),
		recurringhandler.NewGetRecurringHandler(svc.Recurring),
		recurringhandler.NewListRecurringHandler(svc.Recurring),
		recurringhandler.NewUpdateRecurringHandler(svc.Recurring),
		recurringhandler.NewDeactivateRecurringHandler(svc.Recurring),
		recurringhandler.NewDueOccurrencesHandler(svc.Recurring),
		recurringhandler.NewMaterializeHandler(svc.Recurring),
		recurringhandler.NewMaterializeDueHandler(svc.Recurring),

		categoryhandler.NewSeedCategoriesHandler(svc.Category),
		categoryhandler.NewListCategoriesHandler(svc.Category),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
