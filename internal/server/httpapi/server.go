package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/vyacheslafka/cloudstorage-server/internal/logging"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/auth"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/services"
)

// Server wires the HTTP routes to the account and file services.
type Server struct {
	addr      string
	logger    logging.Logger
	accounts  *services.AccountService
	files     *services.FileService
	sessions  *auth.SessionStore
	jwtSecret []byte
}

// NewServer constructs the HTTP server.
func NewServer(addr string, logger logging.Logger, accounts *services.AccountService,
	files *services.FileService, sessions *auth.SessionStore, jwtSecret string) *Server {
	return &Server{
		addr:      addr,
		logger:    logger,
		accounts:  accounts,
		files:     files,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.requireAuth(s.handleLogout))

	mux.HandleFunc("GET /api/files", s.requireAuth(s.handleListFiles))
	mux.HandleFunc("POST /api/files", s.requireAuth(s.handleUploadFile))
	mux.HandleFunc("GET /api/files/{id}", s.requireAuth(s.handleDownloadFile))
	mux.HandleFunc("DELETE /api/files/{id}", s.requireAuth(s.handleDeleteFile))

	mux.HandleFunc("GET /api/settings", s.requireAuth(s.handleGetSettings))
	mux.HandleFunc("POST /api/settings/name", s.requireAuth(s.handleUpdateName))
	mux.HandleFunc("POST /api/settings/email", s.requireAuth(s.handleUpdateEmail))
	mux.HandleFunc("POST /api/settings/password", s.requireAuth(s.handleUpdatePassword))
	mux.HandleFunc("DELETE /api/account", s.requireAuth(s.handleDeleteAccount))

	return mux
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
