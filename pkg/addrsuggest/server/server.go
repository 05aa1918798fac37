package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/logger"
)

// Suggester answers autocomplete queries without ever failing.
type Suggester interface {
	Suggest(ctx context.Context, query string) []dal.Suggestion
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(addr string, svc Suggester, log *logger.Logger) *http.Server {
	server := newHTTPServer(svc, log)
	return &http.Server{
		Addr:              addr,
		Handler:           server.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type httpServer struct {
	svc Suggester
	log *logger.Logger
}

func newHTTPServer(svc Suggester, log *logger.Logger) *httpServer {
	return &httpServer{
		svc: svc,
		log: log,
	}
}

func (h *httpServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, h.requestLogger)
	r.HandleFunc("/api/autocomplete", h.recoverSuggestions(h.GetSuggestions)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	return r
}
