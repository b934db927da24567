// Package rest exposes the user and file services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/filehost/internal/logging"
	"github.com/dmitrijs2005/filehost/internal/server/models"
	"github.com/dmitrijs2005/filehost/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// UserService is the part of services.UserService the transport needs.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// FileService is the part of services.FileService the transport needs.
type FileService interface {
	Upload(ctx context.Context, ownerID int64, parts services.PartReader) (*models.File, error)
	List(ctx context.Context, ownerID int64) ([]*models.File, error)
	Open(ctx context.Context, fileID, ownerID int64) (*models.File, *os.File, error)
	Delete(ctx context.Context, fileID, ownerID int64) error
}

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RESTServer struct {
	address string
	users   UserService
	files   FileService
	db      Pinger
	logger  logging.Logger
}

func NewRESTServer(a string, l logging.Logger, us UserService, fs FileService, db Pinger) *RESTServer {
	return &RESTServer{
		address: a,
		logger:  l.With("module", "rest_server"),
		users:   us,
		files:   fs,
		db:      db,
	}
}

// Handler builds the routing tree with its middleware.
func (s *RESTServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", s.requireUser(s.handleMe))

	mux.Handle("POST /api/files", s.requireUser(s.handleUpload))
	mux.Handle("POST /api/files/upload", s.requireUser(s.handleUpload))
	mux.Handle("GET /api/files", s.requireUser(s.handleList))
	mux.Handle("GET /api/files/{id}/download", s.requireUser(s.handleDownload))
	mux.Handle("DELETE /api/files/{id}", s.requireUser(s.handleDelete))

	return s.logRequests(cors(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
