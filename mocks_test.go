package portal_test

import (
	"context"
	"database/sql"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	portal "github.com/openexams/portal"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// testConfig implements portal.Config for token and guard wiring in tests
type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
	tokenLookup     string
	contextKey      string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-secret-key",
		tokenExpiration: 3600,
		issuer:          "exam-portal",
		audience:        []string{"exam-portal"},
		tokenLookup:     "cookie:token",
		contextKey:      "user",
	}
}

func (c testConfig) GetSigningKey() string    { return c.signingKey }
func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return c.contextKey }
func (c testConfig) GetTokenExpiration() int  { return c.tokenExpiration }
func (c testConfig) GetTokenLookup() string   { return c.tokenLookup }
func (c testConfig) GetAuthScheme() string    { return "Bearer" }
func (c testConfig) GetIssuer() string        { return c.issuer }
func (c testConfig) GetAudience() []string    { return c.audience }

// MockIdentity implements portal.Identity
type MockIdentity struct {
	IDValue   string
	NameValue string
	RoleValue string
}

func (m MockIdentity) ID() string   { return m.IDValue }
func (m MockIdentity) Name() string { return m.NameValue }
func (m MockIdentity) Role() string { return m.RoleValue }

// MockIdentityProvider implements portal.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, namespace portal.IdentifierNamespace, identifier, password string) (portal.Identity, error) {
	args := m.Called(ctx, namespace, identifier, password)
	identity, _ := args.Get(0).(portal.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, namespace portal.IdentifierNamespace, identifier string) (portal.Identity, error) {
	args := m.Called(ctx, namespace, identifier)
	identity, _ := args.Get(0).(portal.Identity)
	return identity, args.Error(1)
}

// MockUsers mocks the portal.Users repository. The embedded interface covers
// the repository methods tests never reach; calling one unmocked panics.
type MockUsers struct {
	mock.Mock
	repository.Repository[*portal.User]
}

func (m *MockUsers) GetByNamespace(ctx context.Context, namespace portal.IdentifierNamespace, identifier string, criteria ...repository.SelectCriteria) (*portal.User, error) {
	args := m.Called(ctx, namespace, identifier)
	user, _ := args.Get(0).(*portal.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByNamespaceTx(ctx context.Context, tx bun.IDB, namespace portal.IdentifierNamespace, identifier string, criteria ...repository.SelectCriteria) (*portal.User, error) {
	args := m.Called(ctx, tx, namespace, identifier)
	user, _ := args.Get(0).(*portal.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByStudentID(ctx context.Context, studentID string) (*portal.User, error) {
	args := m.Called(ctx, studentID)
	user, _ := args.Get(0).(*portal.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByEmail(ctx context.Context, role portal.UserRole, email string) (*portal.User, error) {
	args := m.Called(ctx, role, email)
	user, _ := args.Get(0).(*portal.User)
	return user, args.Error(1)
}

func (m *MockUsers) ListByRole(ctx context.Context, role portal.UserRole) ([]*portal.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]*portal.User)
	return users, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *portal.User) (*portal.User, error) {
	args := m.Called(ctx, user)
	out, _ := args.Get(0).(*portal.User)
	return out, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *portal.User) (*portal.User, error) {
	args := m.Called(ctx, tx, user)
	out, _ := args.Get(0).(*portal.User)
	return out, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, record *portal.User, criteria ...repository.InsertCriteria) (*portal.User, error) {
	args := m.Called(ctx, record)
	out, _ := args.Get(0).(*portal.User)
	return out, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *portal.User, criteria ...repository.InsertCriteria) (*portal.User, error) {
	args := m.Called(ctx, tx, record)
	out, _ := args.Get(0).(*portal.User)
	return out, args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*portal.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*portal.User)
	return user, args.Error(1)
}

// MockExams mocks the portal.Exams repository
type MockExams struct {
	mock.Mock
	repository.Repository[*portal.Exam]
}

func (m *MockExams) Create(ctx context.Context, record *portal.Exam, criteria ...repository.InsertCriteria) (*portal.Exam, error) {
	args := m.Called(ctx, record)
	out, _ := args.Get(0).(*portal.Exam)
	return out, args.Error(1)
}

func (m *MockExams) CreateTx(ctx context.Context, tx bun.IDB, record *portal.Exam, criteria ...repository.InsertCriteria) (*portal.Exam, error) {
	args := m.Called(ctx, tx, record)
	out, _ := args.Get(0).(*portal.Exam)
	return out, args.Error(1)
}

func (m *MockExams) ListAll(ctx context.Context) ([]*portal.Exam, error) {
	args := m.Called(ctx)
	exams, _ := args.Get(0).([]*portal.Exam)
	return exams, args.Error(1)
}

func (m *MockExams) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*portal.Exam, error) {
	args := m.Called(ctx, createdBy)
	exams, _ := args.Get(0).([]*portal.Exam)
	return exams, args.Error(1)
}

// MockRepositoryManager mocks portal.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx executes the transaction body against the mocked repositories
// unless the expectation forces an error.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Users() portal.Users {
	args := m.Called()
	return args.Get(0).(portal.Users)
}

func (m *MockRepositoryManager) Exams() portal.Exams {
	args := m.Called()
	return args.Get(0).(portal.Exams)
}

// MockHTTPAuthenticator mocks portal.HTTPAuthenticator for controller tests
type MockHTTPAuthenticator struct {
	mock.Mock
}

func (m *MockHTTPAuthenticator) ProtectedRoute(requiredRole portal.UserRole, errorHandler func(rctx router.Context, err error) error) router.MiddlewareFunc {
	args := m.Called(requiredRole, errorHandler)
	mw, _ := args.Get(0).(router.MiddlewareFunc)
	return mw
}

func (m *MockHTTPAuthenticator) Login(ctx router.Context, namespace portal.IdentifierNamespace, identifier, password string) error {
	args := m.Called(ctx, namespace, identifier, password)
	return args.Error(0)
}

func (m *MockHTTPAuthenticator) Logout(ctx router.Context) {
	m.Called(ctx)
}
