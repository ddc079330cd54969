package portal

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterStudentMessage carries the payload of a student registration.
// StudentID is the student's login identifier and must be unique.
type RegisterStudentMessage struct {
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Institution string `json:"institution"`
	Password    string `json:"password"`
	UseHashid   bool
}

func (e RegisterStudentMessage) Type() string { return "student.register" }

type RegisterStudentHandler struct {
	repo RepositoryManager
}

func NewRegisterStudentHandler(repo RepositoryManager) *RegisterStudentHandler {
	return &RegisterStudentHandler{repo: repo}
}

func (h *RegisterStudentHandler) Execute(ctx context.Context, event RegisterStudentMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during student registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterStudentHandler) execute(ctx context.Context, event RegisterStudentMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByNamespaceTx(ctx, tx, NamespaceStudentID, event.StudentID); err == nil {
			return NewDuplicateIdentityError(map[string]any{
				"student_id": event.StudentID,
			})
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing student")
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
		user.Role = RoleStudent
		user.Name = event.Name
		user.StudentID = event.StudentID
		user.Email = event.Email
		user.Mobile = event.Mobile
		user.Institution = event.Institution
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.StudentID); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			if IsConflictError(err) {
				return NewDuplicateIdentityError(map[string]any{
					"student_id": event.StudentID,
				})
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create student")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "student registration transaction failed")
	}

	return nil
}
