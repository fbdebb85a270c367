// Package server exposes the reports for one loaded table over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/peekknuf/eda/internal/chart"
	"github.com/peekknuf/eda/internal/frame"
	"github.com/peekknuf/eda/internal/profiler"
	"github.com/peekknuf/eda/internal/render"
)

type Options struct {
	// Source names the table in responses, usually the input path.
	Source       string
	Bins         int
	MissingLimit float64
	Chart        chart.Options
	Logger       *logrus.Logger
	// AllowedOrigins for CORS; defaults to any origin.
	AllowedOrigins []string
}

type Server struct {
	table *frame.Table
	opts  Options
	json  *render.JSON
	log   *logrus.Logger
}

func New(t *frame.Table, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{table: t, opts: opts, json: render.NewJSON(false), log: opts.Logger}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/shape", s.shape)
	r.Get("/mixed", s.mixed)
	r.Get("/missing", s.missing)
	r.Route("/columns/{name}", func(r chi.Router) {
		r.Get("/overview", s.overview)
		r.Get("/distribution", s.distribution)
		r.Get("/distribution.png", s.distributionPNG)
		r.Get("/missing", s.columnMissing)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		}).Debug("request")
	})
}

func (s *Server) shape(w http.ResponseWriter, r *http.Request) {
	rows, cols := s.table.Shape()
	writeJSON(w, http.StatusOK, map[string]any{
		"source":  s.opts.Source,
		"rows":    rows,
		"columns": cols,
		"names":   s.table.Names(),
	})
}

func (s *Server) mixed(w http.ResponseWriter, r *http.Request) {
	s.respond(w, func(buf *bytes.Buffer) error {
		return s.json.MixedTypes(buf, profiler.CheckMixedTypes(s.table))
	})
}

func (s *Server) missing(w http.ResponseWriter, r *http.Request) {
	limit := s.opts.MissingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, errors.New("limit must be a number"))
			return
		}
		limit = f
	}
	s.respond(w, func(buf *bytes.Buffer) error {
		summary, err := profiler.TableMissing(s.table, limit)
		if err != nil {
			return err
		}
		return s.json.Missing(buf, summary)
	})
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	s.respond(w, func(buf *bytes.Buffer) error {
		ov, err := profiler.Overview(s.table, chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		return s.json.Overview(buf, ov)
	})
}

func (s *Server) columnMissing(w http.ResponseWriter, r *http.Request) {
	s.respond(w, func(buf *bytes.Buffer) error {
		col, err := s.table.Column(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		pct, err := profiler.ColumnMissing(col)
		if err != nil {
			return err
		}
		return s.json.ColumnMissing(buf, col.Name(), pct)
	})
}

func (s *Server) report(r *http.Request) (*profiler.DistributionReport, error) {
	bins := s.opts.Bins
	if v := r.URL.Query().Get("bins"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errBadParam("bins must be a positive integer")
		}
		bins = n
	}
	col, err := s.table.Column(chi.URLParam(r, "name"))
	if err != nil {
		return nil, err
	}
	return profiler.Distribution(col, profiler.DistributionOptions{Bins: bins})
}

func (s *Server) distribution(w http.ResponseWriter, r *http.Request) {
	s.respond(w, func(buf *bytes.Buffer) error {
		rep, err := s.report(r)
		if err != nil {
			return err
		}
		return s.json.Distribution(buf, rep)
	})
}

func (s *Server) distributionPNG(w http.ResponseWriter, r *http.Request) {
	rep, err := s.report(r)
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	opts := s.opts.Chart
	opts.Format = "png"

	var buf bytes.Buffer
	if err := chart.Write(&buf, rep, opts); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// respond buffers the body so a failing report still gets a clean error
// status.
func (s *Server) respond(w http.ResponseWriter, fn func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errBadParam string

func (e errBadParam) Error() string { return string(e) }

func statusOf(err error) int {
	var (
		notFound *frame.ColumnNotFoundError
		empty    *profiler.EmptyInputError
		invalid  *profiler.InvalidArgumentError
		bad      errBadParam
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &empty), errors.As(err, &invalid),
		errors.Is(err, profiler.ErrNoRows), errors.Is(err, profiler.ErrNotNumeric):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
