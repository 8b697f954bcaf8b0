package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
	"airbnb-dashboard/utils"
)

// Server serves the dashboard page, its update protocol and a small API.
type Server struct {
	dispatcher *services.Dispatcher
	layout     *models.Layout
	logger     *utils.Logger
	upgrader   websocket.Upgrader
	started    time.Time
}

// New builds a Server over an already loaded dataset.
func New(dispatcher *services.Dispatcher, layout *models.Layout, logger *utils.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		layout:     layout,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameOrigin,
		},
		started: time.Now(),
	}
}

// Routes returns the HTTP handler with every dashboard route mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(Metrics)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebsocket)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/layout", s.handleLayout)
		r.Get("/views/{output}", s.handleView)
		r.Get("/export.xlsx", s.handleExport)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("[server] %s %s: %v", r.Method, r.URL.Path, err)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":   "ok",
		"listings": s.dispatcher.Dataset().Len(),
		"uptime":   time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.layout)
}

type viewResponse struct {
	Output    services.Output        `json:"output"`
	Selection models.FilterSelection `json:"selection"`
	Rows      int                    `json:"rows"`
	Figure    any                    `json:"figure"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	out := services.Output(chi.URLParam(r, "output"))

	sel, err := SelectionFromQuery(r.URL.Query(), s.layout.DefaultSelection())
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	u, err := s.dispatcher.Compute(out, sel)
	if errors.Is(err, services.ErrUnknownOutput) {
		s.renderError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	fig, err := figureFor(u)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, viewResponse{Output: out, Selection: sel, Rows: u.Rows(), Figure: fig})
}
