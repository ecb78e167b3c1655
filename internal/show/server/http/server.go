package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/service"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

// Server is the JSON API consumed by the lot and office clients.
type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

func NewServer(opts *options.HttpOptions, svc *service.Service) *Server {
	h := &handler{svc: svc, logger: log.WithName("http")}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/units/import", h.importUnits).Methods(http.MethodPost)
	api.HandleFunc("/units", h.listUnits).Methods(http.MethodGet)
	api.HandleFunc("/units/{id}", h.getUnit).Methods(http.MethodGet)
	api.HandleFunc("/units/{id}", h.updateUnit).Methods(http.MethodPut)
	api.HandleFunc("/units/{id}/assign", h.assignUnit).Methods(http.MethodPost)
	api.HandleFunc("/units/{id}/classify", h.classifyUnit).Methods(http.MethodPost)
	api.HandleFunc("/units/{id}/pickup", h.pickupUnit).Methods(http.MethodPost)
	api.HandleFunc("/units/{id}/deliver", h.deliverUnit).Methods(http.MethodPost)
	api.HandleFunc("/units/{id}/inventory", h.setInventoried).Methods(http.MethodPost)
	api.HandleFunc("/units/{id}/photo", h.setPhoto).Methods(http.MethodPost)

	api.HandleFunc("/assignments/run", h.runAssignment).Methods(http.MethodPost)
	api.HandleFunc("/assignments/unassign-unpicked", h.unassignUnpicked).Methods(http.MethodPost)

	api.HandleFunc("/drivers", h.listDrivers).Methods(http.MethodGet)
	api.HandleFunc("/drivers", h.addDriver).Methods(http.MethodPost)
	api.HandleFunc("/drivers/register", h.registerDriver).Methods(http.MethodPost)
	api.HandleFunc("/drivers/{name}", h.removeDriver).Methods(http.MethodDelete)

	api.HandleFunc("/snapshot", h.snapshot).Methods(http.MethodGet)
	api.HandleFunc("/export/assignments", h.exportAssignments).Methods(http.MethodGet)
	api.HandleFunc("/export/inventory", h.exportInventory).Methods(http.MethodGet)

	api.HandleFunc("/summary/by-driver", h.summaryByDriver).Methods(http.MethodGet)
	api.HandleFunc("/summary/by-location", h.summaryByLocation).Methods(http.MethodGet)
	api.HandleFunc("/summary/totals", h.totals).Methods(http.MethodGet)
	api.HandleFunc("/summary/rounds", h.rounds).Methods(http.MethodGet)

	api.HandleFunc("/show/end", h.endShow).Methods(http.MethodPost)
	api.HandleFunc("/show/refresh", h.refresh).Methods(http.MethodPost)

	r.HandleFunc("/healthz", probe).Methods(http.MethodGet)
	r.HandleFunc("/readyz", probe).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return &Server{
		server: &http.Server{
			Addr:        opts.Addr,
			Handler:     r,
			ReadTimeout: opts.Timeout,
		},
		options: opts,
	}
}

// Handler exposes the routing tree for httptest based coverage.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func probe(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
