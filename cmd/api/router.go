package main

import (
	"net/http"
	"strings"
)

// journalRouter dispatches /v1/journal/ subpaths. Memory actions live
// under /v1/journal/{id}/memories/{memID}/{action}; everything else is
// journal CRUD by ID.
func journalRouter(journal, memory http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/memories/") {
			memory.ServeHTTP(w, r)
			return
		}
		journal.ServeHTTP(w, r)
	})
}
