package portal_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	portal "github.com/openexams/portal"
)

func newSQLiteRepo(t *testing.T) portal.RepositoryManager {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	// a single connection serializes concurrent transactions instead of
	// surfacing driver busy errors
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, portal.RunMigrations(context.Background(), db))

	repo := portal.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())

	return repo
}

func TestRegisterStudentRacePersistsOneRecord(t *testing.T) {
	repo := newSQLiteRepo(t)
	handler := portal.NewRegisterStudentHandler(repo)

	msg := portal.RegisterStudentMessage{
		Name:      "Race Case",
		StudentID: "S-900",
		Password:  "password123",
	}

	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = handler.Execute(context.Background(), msg)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case portal.IsConflictError(err):
			conflicts++
		default:
			t.Fatalf("unexpected registration error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := repo.Users().FindByStudentID(context.Background(), "S-900")
	require.NoError(t, err)
	assert.Equal(t, "Race Case", stored.Name)
	assert.NoError(t, portal.ComparePasswordAndHash("password123", stored.PasswordHash))
}

func TestStudentIDUniqueIndexRejectsDuplicateInsert(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := &portal.User{
		Role:         portal.RoleStudent,
		Name:         "First",
		StudentID:    "S-901",
		PasswordHash: "not-a-real-hash",
	}
	_, err := repo.Users().Register(ctx, first)
	require.NoError(t, err)

	dupe := &portal.User{
		Role:         portal.RoleStudent,
		Name:         "Second",
		StudentID:    "S-901",
		PasswordHash: "not-a-real-hash",
	}
	_, err = repo.Users().Register(ctx, dupe)
	require.Error(t, err)
	assert.True(t, portal.IsConflictError(err))

	// uniqueness is scoped per role, so an admin record never collides
	// with a student identifier
	admin := &portal.User{
		Role:         portal.RoleAdmin,
		Name:         "Admin",
		Email:        "admin-901@example.com",
		PasswordHash: "not-a-real-hash",
	}
	_, err = repo.Users().Register(ctx, admin)
	require.NoError(t, err)
}

func TestAdminEmailUniqueIndexScopedToAdmins(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	admin := &portal.User{
		Role:         portal.RoleAdmin,
		Name:         "Admin",
		Email:        "shared@example.com",
		PasswordHash: "not-a-real-hash",
	}
	_, err := repo.Users().Register(ctx, admin)
	require.NoError(t, err)

	dupe := &portal.User{
		Role:         portal.RoleAdmin,
		Name:         "Other Admin",
		Email:        "shared@example.com",
		PasswordHash: "not-a-real-hash",
	}
	_, err = repo.Users().Register(ctx, dupe)
	require.Error(t, err)
	assert.True(t, portal.IsConflictError(err))

	// student emails are informational and may repeat
	student := &portal.User{
		Role:         portal.RoleStudent,
		Name:         "Student",
		StudentID:    "S-902",
		Email:        "shared@example.com",
		PasswordHash: "not-a-real-hash",
	}
	_, err = repo.Users().Register(ctx, student)
	require.NoError(t, err)

	found, err := repo.Users().GetByNamespace(ctx, portal.NamespaceEmail, "shared@example.com")
	require.NoError(t, err)
	assert.Equal(t, portal.RoleAdmin, found.Role)
}
