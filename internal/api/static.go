package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// shellRoutes are the client-side routes of the dashboard. Each serves
// the SPA shell so a hard refresh deep-links correctly.
var shellRoutes = map[string]bool{
	"/":                  true,
	"/templates":         true,
	"/workflows":         true,
	"/agentic":           true,
	"/agentic/tools":     true,
	"/agentic/knowledge": true,
	"/settings":          true,
	"/logs":              true,
}

// StaticHandler serves the frontend bundle from a directory, falling
// back to index.html for shell routes and unknown extensionless paths.
func StaticHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shellRoutes[r.URL.Path] {
			http.ServeFile(w, r, index)
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if filepath.Ext(r.URL.Path) == "" {
				http.ServeFile(w, r, index)
				return
			}
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
