package portal

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterAdminMessage carries the payload of an admin registration. Email is
// the admin's login identifier and must be unique among admins.
type RegisterAdminMessage struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Password    string `json:"password"`
	UseHashid   bool
}

func (e RegisterAdminMessage) Type() string { return "admin.register" }

type RegisterAdminHandler struct {
	repo RepositoryManager
}

func NewRegisterAdminHandler(repo RepositoryManager) *RegisterAdminHandler {
	return &RegisterAdminHandler{repo: repo}
}

func (h *RegisterAdminHandler) Execute(ctx context.Context, event RegisterAdminMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during admin registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAdminHandler) execute(ctx context.Context, event RegisterAdminMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByNamespaceTx(ctx, tx, NamespaceEmail, event.Email); err == nil {
			return NewDuplicateIdentityError(map[string]any{
				"email": event.Email,
			})
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing admin")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Role = RoleAdmin
		user.Name = event.Name
		user.Email = event.Email
		user.Institution = event.Institution
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			if IsConflictError(err) {
				return NewDuplicateIdentityError(map[string]any{
					"email": event.Email,
				})
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "admin registration transaction failed")
	}

	return nil
}
