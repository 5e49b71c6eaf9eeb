package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/authz"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/services"
	"github.com/stretchr/testify/require"
)

// tokens accepted by fakeUsers.Authenticate
const (
	memberToken    = "member-token"
	librarianToken = "librarian-token"
	adminToken     = "admin-token"
	expiredToken   = "expired-token"
)

// row keys are UUIDs; handlers reject anything else before calling a service
const (
	bookID          = "0b5e1a52-7c1d-4c39-9a35-1f6f3b2d0a01"
	emptyBookID     = "0b5e1a52-7c1d-4c39-9a35-1f6f3b2d0a02"
	memberID        = "6d1f2c84-3e5a-4b7f-8c21-9a0e4d5b7c01"
	otherMemberID   = "6d1f2c84-3e5a-4b7f-8c21-9a0e4d5b7c07"
	issueID         = "a3c9e0f1-2b4d-4e6a-8f10-7c5b3d2e1a01"
	returnedIssueID = "a3c9e0f1-2b4d-4e6a-8f10-7c5b3d2e1a02"
	requestID       = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	categoryID      = "c2d7a3e9-1f0b-4a6c-9e85-3b4d6f7a8c01"
	missingID       = "00000000-0000-4000-8000-000000000000"
)

func issueBody(book, member string) string {
	return `{"book_id":"` + book + `","member_id":"` + member + `"}`
}

var testUsers = map[string]*models.User{
	memberToken:    {ID: "u-member", Email: "m@example.com", Role: models.RoleMember, IsActive: true},
	librarianToken: {ID: "u-librarian", Email: "l@example.com", Role: models.RoleLibrarian, IsActive: true, IsStaff: true},
	adminToken:     {ID: "u-admin", Email: "a@example.com", Role: models.RoleAdmin, IsActive: true, IsStaff: true},
}

type fakeUsers struct {
	mu        sync.Mutex
	loggedOut []string
	signupErr error
}

func (f *fakeUsers) Signup(_ context.Context, email, name, _ string) (*models.User, *models.MemberProfile, error) {
	if f.signupErr != nil {
		return nil, nil, f.signupErr
	}
	u := &models.User{ID: "u-new", Email: email, Name: name, Role: models.RoleMember, IsActive: true}
	return u, &models.MemberProfile{ID: "p-1", UserID: u.ID, MembershipID: "MEM-000001"}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	if email == "m@example.com" && password == "correct-horse" {
		return &services.TokenPair{AccessToken: memberToken, RefreshToken: "r1"}, nil
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	if token != "r1" {
		return nil, common.ErrInvalidToken
	}
	return &services.TokenPair{AccessToken: memberToken, RefreshToken: "r2"}, nil
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token == expiredToken {
		return nil, common.ErrTokenExpired
	}
	u, ok := testUsers[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Me(_ context.Context, userID string) (*services.Profile, error) {
	for _, u := range testUsers {
		if u.ID == userID {
			return &services.Profile{User: u, Management: []*models.ManagementProfile{}}, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeManagement struct {
	lastStatus models.RequestStatus
	approvedBy string
}

func (f *fakeManagement) CreateRequest(_ context.Context, userID string, role models.Role) (*models.ManagementRequest, error) {
	if userID == testUsers[librarianToken].ID {
		return nil, common.ErrPendingRequestExists
	}
	return &models.ManagementRequest{ID: requestID, UserID: userID, RequestedRole: role, Status: models.StatusPending}, nil
}

func (f *fakeManagement) Approve(_ context.Context, id, approverID string) (*models.ManagementRequest, error) {
	if id != requestID {
		return nil, common.ErrorNotFound
	}
	f.approvedBy = approverID
	return &models.ManagementRequest{ID: id, Status: models.StatusApproved, ApprovedBy: &approverID}, nil
}

func (f *fakeManagement) Reject(_ context.Context, id, actorID string) (*models.ManagementRequest, error) {
	return &models.ManagementRequest{ID: id, Status: models.StatusRejected, ApprovedBy: &actorID}, nil
}

func (f *fakeManagement) ListRequests(_ context.Context, status models.RequestStatus, _, _ int) ([]*models.ManagementRequest, error) {
	f.lastStatus = status
	return []*models.ManagementRequest{}, nil
}

type fakeCirculation struct {
	issued int
}

func (f *fakeCirculation) Issue(_ context.Context, bookID, memberID string) (*models.BookIssue, error) {
	if bookID == emptyBookID {
		return nil, common.ErrNoCopiesAvailable
	}
	f.issued++
	return &models.BookIssue{ID: issueID, BookID: bookID, MemberID: memberID}, nil
}

func (f *fakeCirculation) Return(_ context.Context, id string) (*models.BookIssue, error) {
	switch id {
	case issueID:
		return &models.BookIssue{ID: id, FineAmount: 15}, nil
	case returnedIssueID:
		return nil, common.ErrAlreadyReturned
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCirculation) Overdue(context.Context) ([]*models.OverdueIssue, error) {
	return []*models.OverdueIssue{{BookIssue: models.BookIssue{ID: "i-9"}, BookTitle: "Dune", MemberName: "Ann"}}, nil
}

func (f *fakeCirculation) ListByMember(_ context.Context, memberID string, _, _ int) ([]*models.BookIssue, error) {
	return []*models.BookIssue{{ID: issueID, MemberID: memberID}}, nil
}

// fakeCatalog implements only what the tests call; the embedded nil
// interface panics on anything else.
type fakeCatalog struct {
	CatalogService
	mu      sync.Mutex
	created []*models.Book
	deleted []string
	opts    models.ListOptions
}

func (f *fakeCatalog) CreateBook(_ context.Context, b *models.Book) error {
	if b.AvailableCopies > b.TotalCopies {
		return common.ErrorValidation
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = "b-new"
	f.created = append(f.created, b)
	return nil
}

func (f *fakeCatalog) ListBooks(_ context.Context, opts models.ListOptions) ([]*models.Book, error) {
	f.opts = opts
	return []*models.Book{{ID: bookID, Title: "Dune"}}, nil
}

func (f *fakeCatalog) GetBook(_ context.Context, id string) (*models.Book, error) {
	if id != bookID {
		return nil, common.ErrorNotFound
	}
	return &models.Book{ID: id, Title: "Dune"}, nil
}

func (f *fakeCatalog) DeleteBook(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalog) ListMembers(context.Context, models.ListOptions) ([]*models.Member, error) {
	return []*models.Member{{ID: memberID, Name: "Ann"}}, nil
}

func (f *fakeCatalog) DeleteMember(context.Context, string) error {
	return common.ErrorInUse
}

func (f *fakeCatalog) CreateCategory(_ context.Context, c *models.Category) error {
	if c.Name == "Fiction" {
		return common.ErrorAlreadyExists
	}
	c.ID = "c-new"
	return nil
}

type fakeRecommender struct {
	k        int
	memberID string
}

func (f *fakeRecommender) Recommend(_ context.Context, memberID string, k int) ([]*models.Book, error) {
	f.memberID, f.k = memberID, k
	return []*models.Book{{ID: "b-2"}}, nil
}

type fixture struct {
	users       *fakeUsers
	management  *fakeManagement
	circulation *fakeCirculation
	catalog     *fakeCatalog
	recommender *fakeRecommender
	handler     http.Handler
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	enf, err := authz.NewEnforcer()
	require.NoError(t, err)

	f := &fixture{
		users:       &fakeUsers{},
		management:  &fakeManagement{},
		circulation: &fakeCirculation{},
		catalog:     &fakeCatalog{},
		recommender: &fakeRecommender{},
	}
	srv := NewServer(Services{
		Users:       f.users,
		Management:  f.management,
		Circulation: f.circulation,
		Catalog:     f.catalog,
		Recommend:   f.recommender,
	}, enf, logging.New(io.Discard, logging.Options{Level: "error"}), opts)
	f.handler = srv.Routes()
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "192.0.2.1:1234"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}
