// Package httpapi exposes the library services over HTTP with a chi router.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Signup(ctx context.Context, email, name, password string) (*models.User, *models.MemberProfile, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	Me(ctx context.Context, userID string) (*services.Profile, error)
}

type ManagementService interface {
	CreateRequest(ctx context.Context, userID string, role models.Role) (*models.ManagementRequest, error)
	Approve(ctx context.Context, requestID, approverID string) (*models.ManagementRequest, error)
	Reject(ctx context.Context, requestID, actorID string) (*models.ManagementRequest, error)
	ListRequests(ctx context.Context, status models.RequestStatus, limit, offset int) ([]*models.ManagementRequest, error)
}

type CirculationService interface {
	Issue(ctx context.Context, bookID, memberID string) (*models.BookIssue, error)
	Return(ctx context.Context, issueID string) (*models.BookIssue, error)
	Overdue(ctx context.Context) ([]*models.OverdueIssue, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*models.BookIssue, error)
}

type CatalogService interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context, opts models.ListOptions) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateBook(ctx context.Context, b *models.Book) error
	GetBook(ctx context.Context, id string) (*models.Book, error)
	ListBooks(ctx context.Context, opts models.ListOptions) ([]*models.Book, error)
	UpdateBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, id string) error

	CreateMember(ctx context.Context, m *models.Member) error
	GetMember(ctx context.Context, id string) (*models.Member, error)
	ListMembers(ctx context.Context, opts models.ListOptions) ([]*models.Member, error)
	UpdateMember(ctx context.Context, m *models.Member) error
	DeleteMember(ctx context.Context, id string) error
}

type Recommender interface {
	Recommend(ctx context.Context, memberID string, k int) ([]*models.Book, error)
}

// Authorizer decides whether a role may call a route.
type Authorizer interface {
	Allow(role models.Role, path, method string) (bool, error)
}

// Services groups the dependencies the handlers call into.
type Services struct {
	Users       UserService
	Management  ManagementService
	Circulation CirculationService
	Catalog     CatalogService
	Recommend   Recommender
}

type Options struct {
	CORSOrigins []string
	// AuthRateLimit caps signup, login and refresh calls per client IP per
	// minute. Zero disables the limit.
	AuthRateLimit int
	// Health is called by /healthz when set.
	Health func(ctx context.Context) error
}

type Server struct {
	svc    Services
	authz  Authorizer
	logger logging.Logger
	opts   Options
}

func NewServer(svc Services, authz Authorizer, l logging.Logger, opts Options) *Server {
	return &Server{
		svc:    svc,
		authz:  authz,
		logger: l.With("module", "http_api"),
		opts:   opts,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.instrument)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.opts.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(s.opts.AuthRateLimit, time.Minute))
			}
			r.Post("/auth/signup", s.signup)
			r.Post("/auth/login", s.login)
			r.Post("/auth/refresh", s.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)
			r.Use(s.Authorize)

			r.Post("/auth/logout", s.logout)
			r.Get("/auth/me", s.me)

			r.Post("/management/request", s.createManagementRequest)
			r.Get("/management/requests", s.listManagementRequests)
			r.Post("/management/approve/{id}", s.approveManagementRequest)
			r.Post("/management/reject/{id}", s.rejectManagementRequest)

			r.Post("/books/issue", s.issueBook)
			r.Post("/books/return/{issue_id}", s.returnBook)
			r.Get("/reports/overdue", s.overdueReport)
			r.Get("/books/recommend/{member_id}", s.recommend)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.listCategories)
				r.Post("/", s.createCategory)
				r.Get("/{id}", s.getCategory)
				r.Put("/{id}", s.updateCategory)
				r.Delete("/{id}", s.deleteCategory)
			})
			r.Route("/books", func(r chi.Router) {
				r.Get("/", s.listBooks)
				r.Post("/", s.createBook)
				r.Get("/{id}", s.getBook)
				r.Put("/{id}", s.updateBook)
				r.Delete("/{id}", s.deleteBook)
			})
			r.Route("/members", func(r chi.Router) {
				r.Get("/", s.listMembers)
				r.Post("/", s.createMember)
				r.Get("/{id}", s.getMember)
				r.Put("/{id}", s.updateMember)
				r.Delete("/{id}", s.deleteMember)
				r.Get("/{id}/issues", s.memberIssues)
			})
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Health(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
