package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/repositories"
)

// ClientChecker reports whether a client is still connected.
type ClientChecker interface {
	Exists(clientID uint32) bool
}

type RegistryPruneWorker struct {
	repository repositories.Repository
	clients    ClientChecker
	interval   time.Duration
}

type NewRegistryPruneWorkerOptions struct {
	Repository repositories.Repository
	Clients    ClientChecker
	Interval   time.Duration
}

// NewRegistryPruneWorker creates a new RegistryPruneWorker.
// The worker periodically removes registry entries whose client is no longer
// connected, such as those left behind by a previous server run.
func NewRegistryPruneWorker(opts NewRegistryPruneWorkerOptions) *RegistryPruneWorker {
	return &RegistryPruneWorker{
		repository: opts.Repository,
		clients:    opts.Clients,
		interval:   opts.Interval,
	}
}

func (w *RegistryPruneWorker) Start(ctx context.Context) {
	w.prune(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

// prune returns the number of removed entries.
func (w *RegistryPruneWorker) prune(ctx context.Context) int {
	players, err := w.repository.ListPlayers(ctx, "")
	if err != nil {
		log.Error("Failed to list registered players: %v", err)
		return 0
	}

	removed := 0
	for _, player := range players {
		if w.clients.Exists(player.ClientID) {
			continue
		}
		if err := w.repository.DeletePlayer(ctx, player.ID); err != nil {
			log.Error("Failed to prune player %s: %v", player.ID, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Debug("Pruned %d stale players from the registry", removed)
	}
	return removed
}
