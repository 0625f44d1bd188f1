package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the proof API. Write timeout leaves room for
// cold-path history resolution.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}
