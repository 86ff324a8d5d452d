// Package stub is an in-memory fake of the SendGrid suppression endpoints
// for local testing of the suppress CLI. All data is seeded at startup or
// over the lifetime of the process; nothing is persisted.
package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/account-hygiene/internal/sendgrid"
)

// Entry is one suppression list entry.
type Entry struct {
	Email   string `json:"email"`
	Reason  string `json:"reason,omitempty"`
	Created int64  `json:"created,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Server fakes the five suppression list endpoints over an in-memory store.
type Server struct {
	apiKey string

	mu   sync.Mutex
	data map[sendgrid.ListType]map[string]Entry
}

// New creates a stub server. When apiKey is non-empty, requests must carry
// "Authorization: Bearer <apiKey>" or they get a 401.
func New(apiKey string) *Server {
	data := make(map[sendgrid.ListType]map[string]Entry)
	for _, list := range sendgrid.AllLists() {
		data[list] = make(map[string]Entry)
	}
	return &Server{apiKey: apiKey, data: data}
}

// Seed adds an entry to a list, keyed by lowercased email.
func (s *Server) Seed(list sendgrid.ListType, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[list][strings.ToLower(entry.Email)] = entry
}

// Count returns the number of entries currently in a list.
func (s *Server) Count(list sendgrid.ListType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[list])
}

// Handler returns the HTTP handler for all five list endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.auth)

	for _, list := range sendgrid.AllLists() {
		list := list
		r.Route(list.Endpoint(), func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) { s.handleList(w, req, list) })
			r.Get("/{email}", func(w http.ResponseWriter, req *http.Request) { s.handleGet(w, req, list) })
			r.Delete("/{email}", func(w http.ResponseWriter, req *http.Request) { s.handleDelete(w, req, list) })
		})
	}
	return r
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s.apiKey != "" && req.Header.Get("Authorization") != "Bearer "+s.apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"message":"authorization required"}]}`))
			return
		}
		next.ServeHTTP(w, req)
	})
}

// handleList serves paginated list contents. The global list wraps its
// page in a "result" object, the others return a bare array, matching the
// two shapes the real API uses.
func (s *Server) handleList(w http.ResponseWriter, req *http.Request, list sendgrid.ListType) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 500
	}

	s.mu.Lock()
	emails := make([]string, 0, len(s.data[list]))
	for email := range s.data[list] {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	page := []Entry{}
	for i := offset; i < len(emails) && i < offset+limit; i++ {
		page = append(page, s.data[list][emails[i]])
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if list == sendgrid.ListGlobal {
		json.NewEncoder(w).Encode(map[string]interface{}{"result": page})
		return
	}
	json.NewEncoder(w).Encode(page)
}

// handleGet serves a single-email existence probe. The global list answers
// with an object (empty when absent), the others with an array.
func (s *Server) handleGet(w http.ResponseWriter, req *http.Request, list sendgrid.ListType) {
	email := strings.ToLower(chi.URLParam(req, "email"))

	s.mu.Lock()
	entry, ok := s.data[list][email]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if list == sendgrid.ListGlobal {
		if !ok {
			w.Write([]byte(`{}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"recipient_email": entry.Email})
		return
	}
	if !ok {
		w.Write([]byte(`[]`))
		return
	}
	json.NewEncoder(w).Encode([]Entry{entry})
}

func (s *Server) handleDelete(w http.ResponseWriter, req *http.Request, list sendgrid.ListType) {
	email := strings.ToLower(chi.URLParam(req, "email"))

	s.mu.Lock()
	_, ok := s.data[list][email]
	if ok {
		delete(s.data[list], email)
	}
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
