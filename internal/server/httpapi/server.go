// Package httpapi exposes the JSON HTTP surface of taskboard: the auth
// endpoints, the task endpoints, and the bearer-token middleware guarding
// the protected ones.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
)

// UserService is the identity surface the handlers depend on.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch users.Patch) (*models.User, error)
}

// TaskService is the task surface the handlers depend on.
type TaskService interface {
	List(ctx context.Context, ownerID string, filter tasks.Filter) ([]*models.Task, error)
	Create(ctx context.Context, ownerID string, draft services.TaskDraft) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch tasks.Patch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

type Server struct {
	address   string
	users     UserService
	tasks     TaskService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us UserService, ts TaskService, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		tasks:     ts,
		jwtSecret: []byte(secretKey),
	}
}

// routes wires the endpoint table onto a ServeMux. Protected endpoints go
// through the bearer middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("GET /auth/profile", s.requireAuth(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PUT /auth/profile", s.requireAuth(http.HandlerFunc(s.handleUpdateProfile)))
	mux.Handle("GET /tasks", s.requireAuth(http.HandlerFunc(s.handleListTasks)))
	mux.Handle("POST /tasks", s.requireAuth(http.HandlerFunc(s.handleCreateTask)))
	mux.Handle("PUT /tasks/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdateTask)))
	mux.Handle("DELETE /tasks/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteTask)))

	return mux
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
