// Package mockapi is a local stand-in for the hosted food API. It serves
// schemaless JSON collections at /{resource} and /{resource}/{id} from SQLite.
package mockapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"foodwagen/internal/db"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// FoodResource is the collection the app reads and writes.
const FoodResource = "Food"

const maxBodyBytes = 1 << 20

// notFoundBody is what the hosted API answers for unknown ids and resources.
const notFoundBody = "Not found"

// Server handles the resource routes.
type Server struct {
	db        *sql.DB
	logger    *slog.Logger
	resources map[string]bool
}

// NewServer creates a server for the given resource names.
func NewServer(database *sql.DB, resources []string, logger *slog.Logger) *Server {
	allowed := make(map[string]bool, len(resources))
	for _, r := range resources {
		allowed[r] = true
	}
	return &Server{db: database, logger: logger, resources: allowed}
}

// Router builds the chi router with the middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)

	r.Route("/{resource}", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody, s.logger)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status, "service": "mockapi"}, s.logger)
}

// resource resolves the {resource} segment, answering 404 when unknown.
func (s *Server) resource(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "resource")
	if !s.resources[name] {
		writeJSON(w, http.StatusNotFound, notFoundBody, s.logger)
		return "", false
	}
	return name, true
}

// recordID parses the {id} segment. Non-numeric ids can never exist.
func (s *Server) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, notFoundBody, s.logger)
		return 0, false
	}
	return id, true
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resource(w, r)
	if !ok {
		return
	}

	records, err := db.ListRecords(s.db, resource, r.URL.Query().Get("search"))
	if err != nil {
		s.storageError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Object())
	}
	writeJSON(w, http.StatusOK, out, s.logger)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resource(w, r)
	if !ok {
		return
	}
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}

	rec, err := db.GetRecord(s.db, resource, id)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Object(), s.logger)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resource(w, r)
	if !ok {
		return
	}
	fields, ok := s.decodeBody(w, r)
	if !ok {
		return
	}

	rec, err := db.InsertRecord(s.db, resource, fields)
	if err != nil {
		s.storageError(w, err)
		return
	}
	s.logger.Debug("record created", "resource", resource, "id", rec.ID)
	writeJSON(w, http.StatusCreated, rec.Object(), s.logger)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resource(w, r)
	if !ok {
		return
	}
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}
	fields, ok := s.decodeBody(w, r)
	if !ok {
		return
	}

	rec, err := db.UpdateRecord(s.db, resource, id, fields)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Object(), s.logger)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resource(w, r)
	if !ok {
		return
	}
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}

	rec, err := db.DeleteRecord(s.db, resource, id)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Object(), s.logger)
}

// decodeBody reads a JSON object body. An empty body is an empty object.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read body", s.logger)
		return nil, false
	}

	fields := map[string]any{}
	if len(data) == 0 {
		return fields, true
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "Body must be a JSON object", s.logger)
		return nil, false
	}
	return fields, true
}

func (s *Server) storageError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, notFoundBody, s.logger)
		return
	}
	s.logger.Error("storage error", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error", s.logger)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response as {"message": ...}.
func writeError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, map[string]string{"message": message}, logger)
}
