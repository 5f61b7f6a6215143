package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// CatalogServer is a fake GitHub API and raw content host serving a fixed
// repository tree.
type CatalogServer struct {
	server *httptest.Server

	mu       sync.Mutex
	revision string
	paths    []string
	status   int
	requests map[string]int
}

// NewCatalogServer starts a fake catalog serving paths at revision "rev-1".
func NewCatalogServer(t testing.TB, paths ...string) *CatalogServer {
	t.Helper()

	cs := &CatalogServer{
		revision: "rev-1",
		paths:    append([]string(nil), paths...),
		requests: make(map[string]int),
	}
	cs.server = httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(cs.server.Close)
	return cs
}

// URL returns the server base URL.
func (cs *CatalogServer) URL() string {
	return cs.server.URL
}

// SetRevision changes the commit the branch reports.
func (cs *CatalogServer) SetRevision(rev string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.revision = rev
}

// FailWith makes every request answer with status. Zero restores normal service.
func (cs *CatalogServer) FailWith(status int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.status = status
}

// Requests returns how many requests hit the given kind: "revision", "tree" or "raw".
func (cs *CatalogServer) Requests(kind string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.requests[kind]
}

// PNG is the body served for every raw file.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

func (cs *CatalogServer) handle(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	status := cs.status
	revision := cs.revision
	paths := append([]string(nil), cs.paths...)
	kind := requestKind(r.URL.Path)
	cs.requests[kind]++
	cs.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	switch kind {
	case "revision":
		_, _ = w.Write([]byte(revision))
	case "tree":
		type node struct {
			Path string `json:"path"`
			Type string `json:"type"`
		}
		tree := make([]node, 0, len(paths))
		for _, p := range paths {
			tree = append(tree, node{Path: p, Type: "blob"})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"sha": revision, "tree": tree})
	case "raw":
		for _, p := range paths {
			if strings.HasSuffix(r.URL.Path, "/"+p) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(PNG)
				return
			}
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

func requestKind(path string) string {
	switch {
	case strings.HasPrefix(path, "/raw/"):
		return "raw"
	case strings.Contains(path, "/git/trees/"):
		return "tree"
	case strings.Contains(path, "/commits/"):
		return "revision"
	default:
		return "other"
	}
}
