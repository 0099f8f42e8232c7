package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/vango-dev/navstate/internal/inspecthttp"
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/plugin"
	"github.com/vango-dev/navstate/pkg/plugin/devtools"
)

func serveCmd() *cobra.Command {
	var (
		manifestPath string
		addr         string
		startRoute   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a manifest's router behind the inspect-http and devtools endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(manifestPath, addr, startRoute)
		},
	}

	addManifestFlag(cmd, &manifestPath)
	cmd.Flags().StringVarP(&addr, "addr", "a", ":4411", "address to listen on")
	cmd.Flags().StringVarP(&startRoute, "start", "s", "/", "initial URL to start the router at")

	return cmd
}

func runServe(manifestPath, addr, startRoute string) error {
	rt, err := loadRouter(manifestPath)
	if err != nil {
		return err
	}
	defer rt.Dispose()

	if _, err := rt.Start(context.Background(), startRoute); err != nil {
		return err
	}

	var broadcaster *devtools.Broadcaster
	factory := devtools.Factory()
	unsub, err := rt.UsePlugin("devtools", plugin.Factory(func(bus *events.Bus, deps guard.Deps) (plugin.Instance, error) {
		inst, err := factory(bus, deps)
		if err != nil {
			return nil, err
		}
		broadcaster = inst.(*devtools.Broadcaster)
		return inst, nil
	}))
	if err != nil {
		return err
	}
	defer unsub()

	r := chi.NewRouter()
	inspecthttp.Mount(r, rt)
	r.Get("/devtools", func(w http.ResponseWriter, req *http.Request) {
		broadcaster.HandleWebSocket(w, req)
	})

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
