// Package server exposes the local HTTP API consumed by the editor
// UI: folder and memo CRUD, asset fetch for the renderer, and the
// passcode lock. All content passing through the memo service is
// committed before it reaches persistence.
package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"inkwell/internal/assetref"
	"inkwell/internal/assetstore"
	"inkwell/internal/store"
)

const (
	apiTokenEnvKey    = "INKWELL_API_TOKEN"
	allowRemoteEnvKey = "INKWELL_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps HTTP handlers for the inkwell API.
type Server struct {
	addr          string
	store         *store.Store
	assets        assetstore.Store
	codec         *assetref.Codec
	memoService   *MemoService
	logger        *slog.Logger
	apiToken      string
	maxImageBytes int64
}

// Options tunes server policy.
type Options struct {
	MaxImageBytes int64
}

// New creates a new server instance.
func New(addr string, st *store.Store, assets assetstore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	codec := assetref.NewCodec(assets)
	return &Server{
		addr:        addr,
		store:       st,
		assets:      assets,
		codec:       codec,
		memoService: NewMemoService(st, codec),
		logger:      logger,
		apiToken:    strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
	}
}

// Configure applies option overrides.
func (s *Server) Configure(opts Options) {
	if opts.MaxImageBytes > 0 {
		s.maxImageBytes = opts.MaxImageBytes
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}
	if err != nil {
		return "", fmt.Errorf("invalid api url: %s", apiURL)
	}
	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return true
	}
	raw := strings.TrimSpace(os.Getenv(allowRemoteEnvKey))
	return strings.EqualFold(raw, "true") || raw == "1"
}

func (s *Server) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if token != s.apiToken {
			s.writeErrorReq(w, r, http.StatusUnauthorized, fmt.Errorf("invalid or missing api token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
