package portal

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the narrow lookup surface the provider needs from the
// users repository
type UserStore interface {
	FindByStudentID(ctx context.Context, studentID string) (*User, error)
	FindByEmail(ctx context.Context, role UserRole, email string) (*User, error)
}

// UserProvider resolves credentials against the user store. A lookup miss and
// a password mismatch produce the same error so callers cannot tell which
// identifiers exist.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return identity
func (u UserProvider) VerifyIdentity(ctx context.Context, namespace IdentifierNamespace, identifier, password string) (Identity, error) {
	user, err := u.lookup(ctx, namespace, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		u.logger.Error("VerifyIdentity lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "credential store unavailable").
			WithCode(errors.CodeInternal).
			WithTextCode(TextCodeStoreUnavailable)
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, namespace IdentifierNamespace, identifier string) (Identity, error) {
	user, err := u.lookup(ctx, namespace, identifier)
	if err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

func (u UserProvider) lookup(ctx context.Context, namespace IdentifierNamespace, identifier string) (*User, error) {
	switch namespace {
	case NamespaceStudentID:
		return u.store.FindByStudentID(ctx, identifier)
	case NamespaceEmail:
		return u.store.FindByEmail(ctx, RoleAdmin, identifier)
	default:
		return nil, errors.New("unknown identifier namespace", errors.CategoryBadInput).
			WithMetadata(map[string]any{"namespace": string(namespace)})
	}
}
