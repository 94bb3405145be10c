package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/gateway"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/model"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/notify"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/store"
)

// Phase is the coarse status of the most recent list fetch.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "initial"
	}
}

type ListClient interface {
	List(ctx context.Context) ([]model.Appointment, error)
}

// FetchState is a point-in-time view of the fetch lifecycle. Refreshing is
// independent of Phase: it is true while any fetch is in flight, letting the
// frontend show a lightweight indicator on re-fetches instead of the
// full-page spinner it uses for the very first load.
type FetchState struct {
	Phase        Phase
	ErrorMessage string
	Refreshing   bool
}

const genericFetchError = "failed to load appointments"

// Fetcher drives the initial -> loading -> success|error lifecycle around
// the booking API's list call and replaces the collection on success.
//
// Concurrent fetches are allowed and not serialized: each one moves the
// phase to loading, and whichever response lands last determines the
// terminal phase and the collection contents.
type Fetcher struct {
	client   ListClient
	col      *store.Collection
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	phase    Phase
	errMsg   string
	inflight int
}

func NewFetcher(client ListClient, col *store.Collection, notifier notify.Notifier, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		col:      col,
		notifier: notifier,
		logger:   logger,
	}
}

// Fetch loads the collection once. Retrying is just calling Fetch again;
// there is no backoff and no automatic retry.
func (f *Fetcher) Fetch(ctx context.Context) error {
	f.mu.Lock()
	f.phase = PhaseLoading
	f.inflight++
	f.mu.Unlock()

	records, err := f.client.List(ctx)

	f.mu.Lock()
	f.inflight--
	if err != nil {
		// The collection keeps its previous contents; only the lifecycle
		// state reflects the failure.
		msg := gateway.UserMessage(err, genericFetchError)
		f.phase = PhaseError
		f.errMsg = msg
		f.mu.Unlock()

		f.logger.Error("appointments fetch failed", "err", err)
		f.notifier.Failure(ctx, msg)
		return err
	}
	f.col.Replace(records)
	f.phase = PhaseSuccess
	f.errMsg = ""
	f.mu.Unlock()

	f.logger.Info("appointments fetched", "count", len(records))
	f.notifier.Success(ctx, fmt.Sprintf("loaded %d appointments", len(records)))
	return nil
}

func (f *Fetcher) State() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FetchState{
		Phase:        f.phase,
		ErrorMessage: f.errMsg,
		Refreshing:   f.inflight > 0,
	}
}
