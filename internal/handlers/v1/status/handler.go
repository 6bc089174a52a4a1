package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/carson-networks/ledger-server/internal/logging"
)

// Pinger is the storage health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Storage Pinger
	Timeout time.Duration
}

func NewHandler(store Pinger) Handler {
	return Handler{Storage: store, Timeout: 2 * time.Second}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	ctx, cancel := context.WithTimeout(req.Context(), h.Timeout)
	defer cancel()

	endTimer := logData.AddTiming("pingMs")
	err := h.Storage.Ping(ctx)
	endTimer()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
