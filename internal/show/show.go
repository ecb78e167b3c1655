package show

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/notifier"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/replicator"
	httpserver "github.com/Ronniet1977/CamperShowBackup/internal/show/server/http"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/store"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
)

// ShowServer is the assembled application.
type ShowServer struct {
	store      *store.Store
	replicator *replicator.Replicator
	notifier   *notifier.MQTTNotifier
	httpServer *httpserver.Server
	watch      bool
}

// Run starts the replication worker, the optional snapshot watcher and
// the HTTP server, then blocks until ctx is canceled or a component
// fails.
func (a *ShowServer) Run(ctx context.Context) error {
	log.Info("Starting CamperShow Application...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.replicator.Run(ctx)
	})

	if a.watch {
		g.Go(func() error {
			return a.store.Watch(ctx)
		})
	}

	g.Go(func() error {
		return a.httpServer.Start(ctx)
	})

	err := g.Wait()

	if a.notifier != nil {
		a.notifier.Disconnect(context.Background())
	}

	return err
}
