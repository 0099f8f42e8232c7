package inspecthttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	navstate "github.com/vango-dev/navstate"
	"github.com/vango-dev/navstate/pkg/params"
)

// Mount attaches the inspect endpoints to r, rooted at whatever prefix
// r itself is mounted under. Both routes are read-only and side-effect
// free against rt: match and build never publish state or touch the
// event bus.
func Mount(r chi.Router, rt *navstate.Router) {
	r.Get("/match", handleMatch(rt))
	r.Get("/build", handleBuild(rt))
}

func handleMatch(rt *navstate.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Query().Get("path")
		if path == "" {
			http.Error(w, "missing path query parameter", http.StatusBadRequest)
			return
		}
		match, err := rt.MatchPath(path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, match)
	}
}

func handleBuild(rt *navstate.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		name := req.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name query parameter", http.StatusBadRequest)
			return
		}

		p := params.Params{}
		if raw := req.URL.Query().Get("params"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &p); err != nil {
				http.Error(w, "params must be a JSON object: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		path, err := rt.BuildPath(name, p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"path": path})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
