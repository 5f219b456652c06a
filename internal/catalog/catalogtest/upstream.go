// Package catalogtest provides an in-process stand-in for the upstream
// character API, serving fixed fixtures in the upstream's wire format.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// NotFoundMessage is the upstream's literal error string for a missing id.
const NotFoundMessage = "Character not found"

// InvalidPageMessage is the upstream's literal error string for a bad page.
const InvalidPageMessage = "There is nothing here"

// Upstream is a fake character API. Requests are recorded in arrival order.
type Upstream struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []string
}

// NewUpstream starts a fake upstream and registers its shutdown with t.
func NewUpstream(t testing.TB) *Upstream {
	u := &Upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.server.Close)
	return u
}

// BaseURL is the API root, the equivalent of https://rickandmortyapi.com/api.
func (u *Upstream) BaseURL() string {
	return u.server.URL + "/api"
}

// Requests returns the request URIs received so far.
func (u *Upstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

// Close stops the server; later calls fail at the transport level.
func (u *Upstream) Close() {
	u.server.Close()
}

// Fixture returns the fixture character with the given id.
func Fixture(id int) map[string]interface{} {
	name := map[int]string{1: "Rick Sanchez", 2: "Morty Smith", 3: "Summer Smith"}[id]
	return map[string]interface{}{
		"id":      id,
		"name":    name,
		"status":  "Alive",
		"species": "Human",
		"type":    "",
		"gender":  "Male",
		"origin": map[string]interface{}{
			"name": "Earth (C-137)",
			"url":  "https://rickandmortyapi.com/api/location/1",
		},
		"location": map[string]interface{}{
			"name": "Citadel of Ricks",
			"url":  "https://rickandmortyapi.com/api/location/3",
		},
		"image":   fmt.Sprintf("https://rickandmortyapi.com/api/character/avatar/%d.jpeg", id),
		"episode": []string{"https://rickandmortyapi.com/api/episode/1", "https://rickandmortyapi.com/api/episode/2"},
		"url":     fmt.Sprintf("https://rickandmortyapi.com/api/character/%d", id),
		"created": "2017-11-04T18:48:46.250Z",
	}
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r.URL.RequestURI())
	u.mu.Unlock()

	if r.URL.Path == "/api" || r.URL.Path == "/api/" {
		writeJSON(w, http.StatusOK, map[string]string{
			"characters": u.BaseURL() + "/character",
		})
		return
	}

	segment, ok := strings.CutPrefix(r.URL.Path, "/api/character/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch segment {
	case "":
		u.servePage(w, r.URL.Query().Get("page"))
	case "1", "2", "3":
		id := int(segment[0] - '0')
		writeJSON(w, http.StatusOK, Fixture(id))
	case "1,2,3":
		writeJSON(w, http.StatusOK, []interface{}{Fixture(1), Fixture(2), Fixture(3)})
	case "3,1":
		writeJSON(w, http.StatusOK, []interface{}{Fixture(3), Fixture(1)})
	case "998,999":
		writeJSON(w, http.StatusOK, []interface{}{})
	case "999":
		writeJSON(w, http.StatusNotFound, map[string]string{"error": NotFoundMessage})
	case "0":
		writeJSON(w, http.StatusOK, map[string]string{"error": NotFoundMessage})
	case "broken":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "name": `))
	case "mismatch":
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "not-a-number"})
	case "gateway":
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": NotFoundMessage})
	}
}

func (u *Upstream) servePage(w http.ResponseWriter, page string) {
	next := u.BaseURL() + "/character/?page=2"
	prev := u.BaseURL() + "/character/?page=1"

	switch page {
	case "", "1":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"info":    map[string]interface{}{"count": 3, "pages": 2, "next": next, "prev": nil},
			"results": []interface{}{Fixture(1), Fixture(2)},
		})
	case "2":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"info":    map[string]interface{}{"count": 3, "pages": 2, "next": nil, "prev": prev},
			"results": []interface{}{Fixture(3)},
		})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": InvalidPageMessage})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
