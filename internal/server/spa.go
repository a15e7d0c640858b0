package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// spaFileServer serves the dashboard build from assets, falling back to
// index.html for any path that doesn't match a real file so client-side routes
// such as /login and /board resolve.
func spaFileServer(assets fs.FS) http.Handler {
	fileServer := http.FileServerFS(assets)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if !fs.ValidPath(path) {
			http.NotFound(w, r)
			return
		}
		if _, err := fs.Stat(assets, path); err != nil {
			r.URL.Path = "/"
		}

		fileServer.ServeHTTP(w, r)
	})
}
