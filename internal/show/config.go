package show

import (
	"context"
	"fmt"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/service"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/notifier"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/replicator"
	httpserver "github.com/Ronniet1977/CamperShowBackup/internal/show/server/http"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/storage"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/store"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

type Config struct {
	StoreOptions *options.StoreOptions
	S3Options    *options.S3Options
	MqttOptions  *options.MqttOptions
	HttpOptions  *options.HttpOptions
}

// NewShowServer assembles the full server: local state store, remote
// replication worker, optional MQTT change notifier and the HTTP API.
func (cfg *Config) NewShowServer(ctx context.Context) (*ShowServer, error) {
	st := store.New(cfg.StoreOptions)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("load local state: %w", err)
	}

	storageAdapter, err := storage.NewMinIO(cfg.S3Options)
	if err != nil {
		return nil, fmt.Errorf("failed to init remote storage: %w", err)
	}

	repl := replicator.New(storageAdapter, 64)
	st.Subscribe(repl.OnChange)

	var notifierAdapter *notifier.MQTTNotifier
	if cfg.MqttOptions.Enabled {
		notifierAdapter, err = notifier.NewMQTTNotifier(ctx, cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		st.Subscribe(notifierAdapter.OnChange)
	}

	svc := service.New(st, repl, storageAdapter)
	httpServer := httpserver.NewServer(cfg.HttpOptions, svc)

	return &ShowServer{
		store:      st,
		replicator: repl,
		notifier:   notifierAdapter,
		httpServer: httpServer,
		watch:      cfg.StoreOptions.Watch,
	}, nil
}
