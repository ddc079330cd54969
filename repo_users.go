package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the user repository. Lookups are namespace scoped: a student
// identifies with a student ID, an admin with an email. The role column is
// part of every lookup so a student record can never satisfy an admin lookup
// even if the raw identifier collides.
type Users interface {
	repository.Repository[*User]

	GetByNamespace(ctx context.Context, namespace IdentifierNamespace, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByNamespaceTx(ctx context.Context, tx bun.IDB, namespace IdentifierNamespace, identifier string, criteria ...repository.SelectCriteria) (*User, error)

	FindByStudentID(ctx context.Context, studentID string) (*User, error)
	FindByEmail(ctx context.Context, role UserRole, email string) (*User, error)

	ListByRole(ctx context.Context, role UserRole) ([]*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) GetByNamespace(ctx context.Context, namespace IdentifierNamespace, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByNamespaceTx(ctx, a.db, namespace, identifier, criteria...)
}

func (a *users) GetByNamespaceTx(ctx context.Context, tx bun.IDB, namespace IdentifierNamespace, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	column, role, err := resolveNamespace(namespace)
	if err != nil {
		return nil, err
	}

	value := strings.TrimSpace(identifier)

	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err = q.
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Where("?TableAlias.user_role = ?", role).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"namespace":  string(namespace),
					"identifier": value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) FindByStudentID(ctx context.Context, studentID string) (*User, error) {
	return a.GetByNamespace(ctx, NamespaceStudentID, studentID)
}

func (a *users) FindByEmail(ctx context.Context, role UserRole, email string) (*User, error) {
	value := strings.TrimSpace(email)

	record := &User{}
	err := a.db.NewSelect().Model(record).
		Where("?TableAlias.email = ?", value).
		Where("?TableAlias.user_role = ?", role).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": value,
					"role":  string(role),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) ListByRole(ctx context.Context, role UserRole) ([]*User, error) {
	records := []*User{}
	err := a.db.NewSelect().Model(&records).
		Where("?TableAlias.user_role = ?", role).
		Order("usr.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleStudent
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// resolveNamespace maps a lookup namespace to the column it searches and the
// role it is scoped to.
func resolveNamespace(namespace IdentifierNamespace) (column string, role UserRole, err error) {
	switch namespace {
	case NamespaceStudentID:
		return "student_id", RoleStudent, nil
	case NamespaceEmail:
		return "email", RoleAdmin, nil
	default:
		return "", "", fmt.Errorf("unknown identifier namespace: %s", namespace)
	}
}
