package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/notify"
	"github.com/dmitrijs2005/libris/internal/server/repositories/books"
	"github.com/dmitrijs2005/libris/internal/server/repositories/categories"
	"github.com/dmitrijs2005/libris/internal/server/repositories/issues"
	"github.com/dmitrijs2005/libris/internal/server/repositories/members"
	"github.com/dmitrijs2005/libris/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/libris/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/libris/internal/server/repositories/requests"
	"github.com/dmitrijs2005/libris/internal/server/repositories/sequences"
	"github.com/dmitrijs2005/libris/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Auth.SecretKey = "k"
	c.Auth.AccessTokenValidityDuration = time.Hour
	c.Auth.RefreshTokenValidityDuration = 2 * time.Hour
	c.Recommend.Dimension = 0
	return c
}

func testLogger() logging.Logger {
	return logging.New(&strings.Builder{}, logging.Options{Level: "error"})
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (n *recordingNotifier) Enqueue(_ context.Context, m notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.msgs = append(n.msgs, m)
	return nil
}

func (n *recordingNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.msgs...)
}

// --- in-memory store ---

// memStore backs every fake repository. mu keeps single calls atomic; the
// book and issue fakes also take row locks through newTxDB transactions and
// undo their writes on rollback.
type memStore struct {
	mu sync.Mutex

	users      map[string]*models.User
	tokens     map[string]*models.RefreshToken
	seq        map[string]int64
	memberProf map[string]*models.MemberProfile
	mgmtProf   []*models.ManagementProfile
	requests   map[string]*models.ManagementRequest
	categories map[string]*models.Category
	books      []*models.Book
	members    map[string]*models.Member
	issues     []*models.BookIssue

	// errs injects a failure into the named operation, e.g. "books.AdjustAvailable".
	errs map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		tokens:     map[string]*models.RefreshToken{},
		seq:        map[string]int64{},
		memberProf: map[string]*models.MemberProfile{},
		requests:   map[string]*models.ManagementRequest{},
		categories: map[string]*models.Category{},
		members:    map[string]*models.Member{},
		errs:       map[string]error{},
	}
}

func (s *memStore) fail(op string) error { return s.errs[op] }

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return &fakeUsers{m.s} }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &fakeTokens{m.s}
}
func (m *fakeRepoManager) Sequences(dbx.DBTX) sequences.Repository   { return &fakeSequences{m.s} }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository     { return &fakeProfiles{m.s} }
func (m *fakeRepoManager) Requests(dbx.DBTX) requests.Repository     { return &fakeRequests{m.s} }
func (m *fakeRepoManager) Categories(dbx.DBTX) categories.Repository { return &fakeCategories{m.s} }
func (m *fakeRepoManager) Books(db dbx.DBTX) books.Repository        { return &fakeBooks{s: m.s, db: db} }
func (m *fakeRepoManager) Members(dbx.DBTX) members.Repository       { return &fakeMembers{m.s} }
func (m *fakeRepoManager) Issues(db dbx.DBTX) issues.Repository      { return &fakeIssues{s: m.s, db: db} }

// users

type fakeUsers struct{ s *memStore }

func (r *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return nil, err
	}
	u.Email = strings.ToLower(u.Email)
	for _, x := range r.s.users {
		if x.Email == u.Email {
			return nil, fmt.Errorf("%w: users_email_key", common.ErrorAlreadyExists)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUsers) UpdateRole(_ context.Context, id string, role models.Role, isStaff bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.UpdateRole"); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role, u.IsStaff = role, isStaff
	return nil
}

// refresh tokens

type fakeTokens struct{ s *memStore }

func (r *fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("tokens.Create"); err != nil {
		return err
	}
	r.s.tokens[token] = &models.RefreshToken{ID: uuid.NewString(), UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r *fakeTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("tokens.Find"); err != nil {
		return nil, err
	}
	t, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokens) Delete(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("tokens.Delete"); err != nil {
		return err
	}
	delete(r.s.tokens, token)
	return nil
}

func (r *fakeTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.tokens {
		if t.Expires.Before(now) {
			delete(r.s.tokens, k)
			n++
		}
	}
	return n, nil
}

// sequences

type fakeSequences struct{ s *memStore }

func (r *fakeSequences) Next(_ context.Context, scope string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("sequences.Next"); err != nil {
		return 0, err
	}
	r.s.seq[scope]++
	return r.s.seq[scope], nil
}

// profiles

type fakeProfiles struct{ s *memStore }

func (r *fakeProfiles) CreateMember(_ context.Context, p *models.MemberProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("profiles.CreateMember"); err != nil {
		return err
	}
	if _, ok := r.s.memberProf[p.UserID]; ok {
		return common.ErrorAlreadyExists
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.s.memberProf[p.UserID] = &cp
	return nil
}

func (r *fakeProfiles) GetMemberByUser(_ context.Context, userID string) (*models.MemberProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.memberProf[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfiles) CreateManagement(_ context.Context, p *models.ManagementProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.mgmtProf {
		if x.UserID == p.UserID && x.Role == p.Role {
			return common.ErrorAlreadyExists
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.s.mgmtProf = append(r.s.mgmtProf, &cp)
	return nil
}

func (r *fakeProfiles) GetManagement(_ context.Context, userID string, role models.Role) (*models.ManagementProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.mgmtProf {
		if x.UserID == userID && x.Role == role {
			cp := *x
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeProfiles) ListManagementByUser(_ context.Context, userID string) ([]*models.ManagementProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ManagementProfile
	for _, x := range r.s.mgmtProf {
		if x.UserID == userID {
			cp := *x
			out = append(out, &cp)
		}
	}
	return out, nil
}

// requests

type fakeRequests struct{ s *memStore }

func (r *fakeRequests) Create(_ context.Context, req *models.ManagementRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.StatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequests) HasPending(_ context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.requests {
		if x.UserID == userID && x.Status == models.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequests) GetPendingForUpdate(_ context.Context, id string) (*models.ManagementRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.requests[id]
	if !ok || x.Status != models.StatusPending {
		return nil, common.ErrorNotFound
	}
	cp := *x
	return &cp, nil
}

func (r *fakeRequests) Resolve(_ context.Context, id string, status models.RequestStatus, actorID string) (*models.ManagementRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("requests.Resolve"); err != nil {
		return nil, err
	}
	x, ok := r.s.requests[id]
	if !ok || x.Status != models.StatusPending {
		return nil, common.ErrorNotFound
	}
	x.Status = status
	actor := actorID
	x.ApprovedBy = &actor
	x.UpdatedAt = time.Now()
	cp := *x
	return &cp, nil
}

func (r *fakeRequests) List(_ context.Context, status models.RequestStatus, limit, offset int) ([]*models.ManagementRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ManagementRequest
	for _, x := range r.s.requests {
		if status == "" || x.Status == status {
			cp := *x
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// categories

type fakeCategories struct{ s *memStore }

func (r *fakeCategories) Create(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategories) GetByID(_ context.Context, id string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategories) List(_ context.Context, opts models.ListOptions) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Category
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, opts.Limit, opts.Offset), nil
}

func (r *fakeCategories) Update(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategories) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.categories, id)
	return nil
}

// books

type fakeBooks struct {
	s  *memStore
	db dbx.DBTX
}

func (r *fakeBooks) find(id string) (int, bool) {
	for i, b := range r.s.books {
		if b.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (r *fakeBooks) Create(_ context.Context, b *models.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	r.s.books = append(r.s.books, &cp)
	return nil
}

func (r *fakeBooks) GetByID(_ context.Context, id string) (*models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.s.books[i]
	return &cp, nil
}

func (r *fakeBooks) GetByISBN(_ context.Context, isbn string) (*models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.books {
		if b.ISBN == isbn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeBooks) GetForUpdate(ctx context.Context, id string) (*models.Book, error) {
	if err := lockRow(ctx, r.db, "books:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *fakeBooks) List(_ context.Context, opts models.ListOptions) ([]*models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Book
	for _, b := range r.s.books {
		cp := *b
		out = append(out, &cp)
	}
	return page(out, opts.Limit, opts.Offset), nil
}

func (r *fakeBooks) Update(_ context.Context, b *models.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.find(b.ID)
	if !ok {
		return common.ErrorNotFound
	}
	cp := *b
	cp.Embedding = r.s.books[i].Embedding
	r.s.books[i] = &cp
	return nil
}

func (r *fakeBooks) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return common.ErrorNotFound
	}
	r.s.books = append(r.s.books[:i], r.s.books[i+1:]...)
	return nil
}

func (r *fakeBooks) AdjustAvailable(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	if err := r.s.fail("books.AdjustAvailable"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	i, ok := r.find(id)
	if !ok {
		r.s.mu.Unlock()
		return common.ErrorNotFound
	}
	b := r.s.books[i]
	n := b.AvailableCopies + delta
	if n < 0 || n > b.TotalCopies {
		r.s.mu.Unlock()
		return common.ErrorValidation
	}
	b.AvailableCopies = n
	r.s.mu.Unlock()

	return onRollback(ctx, r.db, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		b.AvailableCopies -= delta
	})
}

func (r *fakeBooks) ListEmbedded(_ context.Context) ([]*models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Book
	for _, b := range r.s.books {
		if len(b.Embedding) > 0 {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBooks) ListWithoutEmbedding(_ context.Context, limit int) ([]*models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Book
	for _, b := range r.s.books {
		if len(b.Embedding) == 0 {
			cp := *b
			out = append(out, &cp)
		}
	}
	return page(out, limit, 0), nil
}

func (r *fakeBooks) SetEmbedding(_ context.Context, id string, v models.Vector) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return common.ErrorNotFound
	}
	r.s.books[i].Embedding = v
	return nil
}

// members

type fakeMembers struct{ s *memStore }

func (r *fakeMembers) Create(_ context.Context, m *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	cp := *m
	r.s.members[m.ID] = &cp
	return nil
}

func (r *fakeMembers) GetByID(_ context.Context, id string) (*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMembers) List(_ context.Context, opts models.ListOptions) ([]*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Member
	for _, m := range r.s.members {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts.Limit, opts.Offset), nil
}

func (r *fakeMembers) Update(_ context.Context, m *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *m
	r.s.members[m.ID] = &cp
	return nil
}

func (r *fakeMembers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[id]; !ok {
		return common.ErrorNotFound
	}
	for _, i := range r.s.issues {
		if i.MemberID == id {
			return common.ErrorInUse
		}
	}
	delete(r.s.members, id)
	return nil
}

// issues

type fakeIssues struct {
	s  *memStore
	db dbx.DBTX
}

func (r *fakeIssues) find(id string) *models.BookIssue {
	for _, i := range r.s.issues {
		if i.ID == id {
			return i
		}
	}
	return nil
}

func (r *fakeIssues) Create(ctx context.Context, issue *models.BookIssue) error {
	r.s.mu.Lock()
	if err := r.s.fail("issues.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	cp := *issue
	r.s.issues = append(r.s.issues, &cp)
	r.s.mu.Unlock()

	return onRollback(ctx, r.db, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		for i, x := range r.s.issues {
			if x.ID == cp.ID {
				r.s.issues = append(r.s.issues[:i], r.s.issues[i+1:]...)
				return
			}
		}
	})
}

func (r *fakeIssues) GetForUpdate(ctx context.Context, id string) (*models.BookIssue, error) {
	if err := lockRow(ctx, r.db, "issues:"+id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i == nil {
		return nil, common.ErrorNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *fakeIssues) MarkReturned(ctx context.Context, id string, returnDate time.Time, fine int64) (*models.BookIssue, error) {
	r.s.mu.Lock()
	i := r.find(id)
	if i == nil {
		r.s.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	if i.ReturnDate != nil {
		r.s.mu.Unlock()
		return nil, common.ErrAlreadyReturned
	}
	prevFine := i.FineAmount
	d := returnDate
	i.ReturnDate = &d
	i.FineAmount = fine
	cp := *i
	r.s.mu.Unlock()

	if err := onRollback(ctx, r.db, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		i.ReturnDate, i.FineAmount = nil, prevFine
	}); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *fakeIssues) ListOverdue(_ context.Context, today time.Time) ([]*models.OverdueIssue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("issues.ListOverdue"); err != nil {
		return nil, err
	}
	var out []*models.OverdueIssue
	for _, i := range r.s.issues {
		if i.ReturnDate != nil || !i.DueDate.Before(today) {
			continue
		}
		o := &models.OverdueIssue{BookIssue: *i}
		for _, b := range r.s.books {
			if b.ID == i.BookID {
				o.BookTitle = b.Title
			}
		}
		if m, ok := r.s.members[i.MemberID]; ok {
			o.MemberName, o.MemberEmail = m.Name, m.Email
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeIssues) IssuedBookIDs(_ context.Context, memberID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, i := range r.s.issues {
		if i.MemberID == memberID && !seen[i.BookID] {
			seen[i.BookID] = true
			out = append(out, i.BookID)
		}
	}
	return out, nil
}

func (r *fakeIssues) ListByMember(_ context.Context, memberID string, limit, offset int) ([]*models.BookIssue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.BookIssue
	for _, i := range r.s.issues {
		if i.MemberID == memberID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
