// Package apitest runs an in-memory todo API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/tada/internal/model"
)

// Epoch is the creation time of the first todo the server creates.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Request is what the server saw for one call.
type Request struct {
	Method    string
	Path      string
	RequestID string
	Auth      string
	Body      []byte
}

type failSpec struct {
	status  int
	message string
}

// Server is a fake API mounted under /api.
type Server struct {
	ts *httptest.Server

	mu       sync.Mutex
	todos    []model.Todo
	nextID   int
	now      time.Time
	users    map[int]*model.User
	meID     int
	token    string
	failures map[string]failSpec
	requests []Request
}

// New starts a server and closes it when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		nextID:   1,
		now:      Epoch,
		users:    map[int]*model.User{},
		failures: map[string]failSpec{},
	}
	s.ts = httptest.NewServer(s.router())
	t.Cleanup(s.ts.Close)
	return s
}

// URL is the API base URL, including the /api prefix.
func (s *Server) URL() string { return s.ts.URL + "/api" }

// RequireToken makes every request without "Bearer tok" fail with 401.
func (s *Server) RequireToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

// Seed replaces the stored todos. IDs above the highest seeded one are
// used for new todos.
func (s *Server) Seed(todos ...model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append([]model.Todo(nil), todos...)
	for _, t := range todos {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
		if t.Attributes.CreatedAt.After(s.now) {
			s.now = t.Attributes.CreatedAt
		}
	}
}

// Todos returns a copy of the stored todos in storage order.
func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// SetMe registers u and makes it the /users/me answer.
func (s *Server) SetMe(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
	s.meID = u.ID
}

// User returns the stored user id.
func (s *Server) User(id int) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return *u, true
}

// Fail makes "METHOD path" (path without the /api prefix) answer status
// with message until Recover is called.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failSpec{status: status, message: message}
}

// Recover clears all injected failures.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failSpec{}
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.record, s.authenticate, s.injectFailures)
	api.HandleFunc("/todos", s.listTodos).Methods(http.MethodGet)
	api.HandleFunc("/todos", s.createTodo).Methods(http.MethodPost)
	api.HandleFunc("/todos/{id:[0-9]+}", s.updateTodo).Methods(http.MethodPut)
	api.HandleFunc("/todos/{id:[0-9]+}", s.deleteTodo).Methods(http.MethodDelete)
	api.HandleFunc("/users/me", s.me).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut)
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      strings.TrimPrefix(r.URL.Path, "/api"),
			RequestID: r.Header.Get("X-Request-ID"),
			Auth:      r.Header.Get("Authorization"),
			Body:      body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		tok := s.token
		s.mu.Unlock()
		if tok != "" && r.Header.Get("Authorization") != "Bearer "+tok {
			writeError(w, http.StatusUnauthorized, "Missing or invalid credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		s.mu.Lock()
		f, ok := s.failures[key]
		s.mu.Unlock()
		if ok {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listTodos(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]model.Todo{}, s.todos...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Data model.CreateTodoInput `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Data.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	s.mu.Lock()
	s.now = s.now.Add(time.Minute)
	t := model.Todo{
		ID: s.nextID,
		Attributes: model.TodoAttributes{
			Title:       in.Data.Title,
			Description: in.Data.Description,
			Completed:   in.Data.Completed,
			CreatedAt:   s.now,
			UpdatedAt:   s.now,
		},
	}
	s.nextID++
	s.todos = append(s.todos, t)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": t})
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var in struct {
		Data model.UpdateTodoInput `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID != id {
			continue
		}
		a := &s.todos[i].Attributes
		if in.Data.Title != nil {
			a.Title = *in.Data.Title
		}
		if in.Data.Description != nil {
			a.Description = *in.Data.Description
		}
		if in.Data.Completed != nil {
			a.Completed = *in.Data.Completed
		}
		s.now = s.now.Add(time.Second)
		a.UpdatedAt = s.now
		writeJSON(w, http.StatusOK, map[string]any{"data": s.todos[i]})
		return
	}
	writeError(w, http.StatusNotFound, "Not Found")
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			deleted := s.todos[i]
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"data": deleted})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Not Found")
}

func (s *Server) me(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	u, ok := s.users[s.meID]
	var cp model.User
	if ok {
		cp = *u
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var d model.ProfileDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if d.Username != "" {
		u.Username = d.Username
	}
	if d.Email != "" {
		u.Email = d.Email
	}
	if d.ProfileImage != "" {
		u.ProfileImage = d.ProfileImage
	}
	writeJSON(w, http.StatusOK, *u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"data": nil,
		"error": map[string]any{
			"status":  status,
			"message": message,
		},
	})
}
