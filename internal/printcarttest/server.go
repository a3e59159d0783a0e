// Package printcarttest provides an in-memory fake of the Printcart REST API
// for tests and examples.
//
// The fake stores JSON documents by path. A path with an even number of
// segments ("products/42", "products/42/designs/7") is an item; any other
// path is a collection. Request bodies enveloped under the collection key
// ({"products": {...}}) are unwrapped before storage.
package printcarttest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// TB is the subset of testing.TB the server needs.
type TB interface {
	Helper()
	Cleanup(func())
}

// RecordedRequest is a request received by the server.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type failure struct {
	status int
	body   string
}

// Server is a fake Printcart API.
type Server struct {
	*httptest.Server

	mutex     sync.Mutex
	documents map[string]json.RawMessage
	failures  map[string]failure
	requests  []RecordedRequest
}

// NewServer starts a fake API accepting the given basic credentials. The
// server is closed when the test ends.
func NewServer(t TB, username, password string) *Server {
	t.Helper()

	s := &Server{
		documents: make(map[string]json.RawMessage),
		failures:  make(map[string]failure),
	}

	s.Server = httptest.NewServer(s.routes(username, password))
	t.Cleanup(s.Close)

	return s
}

func (s *Server) routes(username, password string) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.record)
	router.Use(middleware.BasicAuth("printcart", map[string]string{username: password}))
	router.Use(s.inject)

	router.Get("/{version}/*", s.handleGet)
	router.Post("/{version}/*", s.handlePost)
	router.Put("/{version}/*", s.handlePut)
	router.Delete("/{version}/*", s.handleDelete)

	return router
}

// Seed stores doc at path, e.g. "products/42".
func (s *Server) Seed(path string, doc any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.documents[strings.Trim(path, "/")] = raw
}

// Document returns the document stored at path.
func (s *Server) Document(path string) (json.RawMessage, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, ok := s.documents[strings.Trim(path, "/")]

	return doc, ok
}

// SetFailure makes every request to path answer with status and body.
func (s *Server) SetFailure(path string, status int, body string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.failures[strings.Trim(path, "/")] = failure{status: status, body: body}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() RecordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.requests) == 0 {
		return RecordedRequest{}
	}

	return s.requests[len(s.requests)-1]
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mutex.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		s.mutex.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		f, ok := s.failures[resourcePath(r.URL.Path)]
		s.mutex.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	path := wildcard(r)

	if collection, ok := strings.CutSuffix(path, "/count"); ok && !isItem(collection) {
		s.mutex.Lock()
		count := len(s.collectionLocked(collection))
		s.mutex.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]int{"count": count}})

		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if isItem(path) {
		doc, ok := s.documents[path]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})

			return
		}

		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": doc})

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": s.collectionLocked(path)})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	path := wildcard(r)
	if isItem(path) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "cannot create an item path"})

		return
	}

	doc, ok := unwrap(w, r, lastSegment(path))
	if !ok {
		return
	}

	id := gjson.GetBytes(doc, "id").String()
	if id == "" {
		id = uuid.NewString()

		updated, err := sjson.SetBytes(doc, "id", id)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})

			return
		}

		doc = updated
	}

	s.mutex.Lock()
	s.documents[path+"/"+id] = doc
	s.mutex.Unlock()

	writeJSON(w, http.StatusCreated, map[string]json.RawMessage{"data": doc})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	path := wildcard(r)

	if collection, ok := strings.CutSuffix(path, "/batch"); ok && !isItem(collection) {
		s.putBatch(w, r, collection)

		return
	}

	if !isItem(path) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "cannot update a collection"})

		return
	}

	doc, ok := unwrap(w, r, lastSegment(parentPath(path)))
	if !ok {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, found := s.documents[path]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})

		return
	}

	merged := merge(existing, doc)
	s.documents[path] = merged

	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": merged})
}

func (s *Server) putBatch(w http.ResponseWriter, r *http.Request, collection string) {
	doc, ok := unwrap(w, r, lastSegment(collection))
	if !ok {
		return
	}

	items := gjson.ParseBytes(doc)
	if !items.IsArray() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "batch body must be an array"})

		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	updated := make([]json.RawMessage, 0)

	for _, item := range items.Array() {
		key := collection + "/" + item.Get("id").String()

		existing, found := s.documents[key]
		if !found {
			continue
		}

		merged := merge(existing, []byte(item.Raw))
		s.documents[key] = merged
		updated = append(updated, merged)
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	path := wildcard(r)

	if collection, ok := strings.CutSuffix(path, "/batch"); ok && !isItem(collection) {
		s.deleteBatch(w, r, collection)

		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, found := s.documents[path]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})

		return
	}

	for key := range s.documents {
		if key == path || strings.HasPrefix(key, path+"/") {
			delete(s.documents, key)
		}
	}

	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": doc})
}

// deleteBatch removes the ids listed in the body or, for a request without
// a body, in the comma separated ids query parameter.
func (s *Server) deleteBatch(w http.ResponseWriter, r *http.Request, collection string) {
	var ids []string

	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) == 0 {
		for id := range strings.SplitSeq(r.URL.Query().Get("ids"), ",") {
			if id != "" {
				ids = append(ids, id)
			}
		}
	} else {
		doc, ok := unwrap(w, r, lastSegment(collection))
		if !ok {
			return
		}

		for _, id := range gjson.ParseBytes(doc).Array() {
			ids = append(ids, id.String())
		}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	deleted := 0

	for _, id := range ids {
		key := collection + "/" + id
		if _, found := s.documents[key]; found {
			delete(s.documents, key)
			deleted++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]int{"deleted": deleted}})
}

// collectionLocked returns the direct items of a collection sorted by path.
func (s *Server) collectionLocked(collection string) []json.RawMessage {
	keys := make([]string, 0)

	for key := range s.documents {
		if parentPath(key) == collection && isItem(key) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	items := make([]json.RawMessage, 0, len(keys))
	for _, key := range keys {
		items = append(items, s.documents[key])
	}

	return items
}

// unwrap reads the request body and strips the {"<key>": ...} envelope when present.
func unwrap(w http.ResponseWriter, r *http.Request, key string) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil || !gjson.ValidBytes(body) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})

		return nil, false
	}

	doc := gjson.ParseBytes(body)
	if inner := doc.Get(key); doc.IsObject() && inner.Exists() && len(doc.Map()) == 1 {
		return []byte(inner.Raw), true
	}

	return body, true
}

// merge applies the top-level fields of patch onto doc.
func merge(doc, patch []byte) json.RawMessage {
	merged := doc

	gjson.ParseBytes(patch).ForEach(func(key, value gjson.Result) bool {
		updated, err := sjson.SetRawBytes(merged, key.String(), []byte(value.Raw))
		if err == nil {
			merged = updated
		}

		return true
	})

	return merged
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wildcard(r *http.Request) string {
	return strings.Trim(chi.URLParam(r, "*"), "/")
}

// resourcePath strips the leading version segment from a URL path.
func resourcePath(urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")

	_, rest, _ := strings.Cut(trimmed, "/")

	return rest
}

func isItem(path string) bool {
	return path != "" && strings.Count(path, "/")%2 == 1
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}

	return path[:idx]
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
