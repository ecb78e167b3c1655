package app

import (
	"fmt"

	"github.com/Ronniet1977/CamperShowBackup/cmd/campershow-server/app/options"
	"github.com/Ronniet1977/CamperShowBackup/pkg/app"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
)

const (
	commandName = "campershow-server"
	commandDesc = `The campershow server tracks camper delivery for a show: it keeps the
authoritative local snapshot, assigns units to drivers round by round,
replicates state to remote storage and serves the JSON API the lot and
office clients talk to.`
)

func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		commandName,
		"Launch the campershow delivery tracking server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)
		defer log.Sync()

		ctx := app.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewShowServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create show server: %w", err)
		}

		return server.Run(ctx)
	}
}
