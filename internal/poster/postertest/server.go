// Package postertest provides an in-process stand-in for the Medium API.
package postertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// Response is a canned reply for one endpoint.
type Response struct {
	Status int
	Body   string
	Delay  time.Duration // held before replying, or until the client gives up
}

// Call is one request the server received.
type Call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	Body          []byte
}

// Server records every request and answers /me and /users/{id}/posts with
// the configured responses.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	calls []Call

	Me   Response
	Post Response
}

// NewServer starts a server that resolves user "u1" and returns a draft URL.
// It is closed when the test finishes.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		Me: Response{
			Status: http.StatusOK,
			Body:   `{"data":{"id":"u1","username":"writer","name":"A Writer","url":"https://medium.com/@writer"}}`,
		},
		Post: Response{
			Status: http.StatusCreated,
			Body:   `{"data":{"id":"p1","authorId":"u1","url":"https://medium.com/@u/hello-world-u1","publishStatus":"draft"}}`,
		},
	}

	me := func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.reply(w, r, s.Me)
	}
	post := func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.reply(w, r, s.Post)
	}
	notFound := func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "Not found", "code": 6000}},
		})
	}

	// Routes "GET /v1/me" and "POST /v1/users/{id}/posts" by hand so the
	// fake works on toolchains without method/wildcard ServeMux patterns.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/v1/me":
			me(w, r)
		case r.Method == http.MethodPost && isUserPostsPath(r.URL.Path):
			post(w, r)
		default:
			notFound(w, r)
		}
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

// BaseURL is the API root to hand to the poster.
func (s *Server) BaseURL() string {
	return s.URL + "/v1"
}

// Calls returns the requests received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Paths returns "METHOD /path" for every request received, in order.
func (s *Server) Paths() []string {
	calls := s.Calls()
	paths := make([]string, len(calls))
	for i, c := range calls {
		paths[i] = c.Method + " " + c.Path
	}
	return paths
}

// Count returns how many requests hit the given method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, resp Response) {
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

// isUserPostsPath reports whether path matches /v1/users/{id}/posts.
func isUserPostsPath(path string) bool {
	id, ok := strings.CutPrefix(path, "/v1/users/")
	if !ok {
		return false
	}
	id, ok = strings.CutSuffix(id, "/posts")
	return ok && id != "" && !strings.Contains(id, "/")
}
