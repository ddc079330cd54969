package portal

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Exams is the exam repository
type Exams interface {
	repository.Repository[*Exam]

	Create(ctx context.Context, record *Exam, criteria ...repository.InsertCriteria) (*Exam, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Exam, criteria ...repository.InsertCriteria) (*Exam, error)
	ListAll(ctx context.Context) ([]*Exam, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Exam, error)
}

type exams struct {
	repository.Repository[*Exam]
	db *bun.DB
}

var (
	_ Exams                        = (*exams)(nil)
	_ repository.Repository[*Exam] = (*exams)(nil)
)

func NewExamsRepository(db *bun.DB) Exams {
	repo := repository.NewRepository[*Exam](db, repository.ModelHandlers[*Exam]{
		NewRecord: func() *Exam { return &Exam{} },
		GetID: func(e *Exam) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *Exam, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
	})

	return &exams{
		Repository: repo,
		db:         db,
	}
}

func (a *exams) Create(ctx context.Context, record *Exam, criteria ...repository.InsertCriteria) (*Exam, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *exams) CreateTx(ctx context.Context, tx bun.IDB, record *Exam, criteria ...repository.InsertCriteria) (*Exam, error) {
	prepareExamDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *exams) ListAll(ctx context.Context) ([]*Exam, error) {
	records := []*Exam{}
	err := a.db.NewSelect().Model(&records).
		Order("exm.exam_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *exams) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Exam, error) {
	records := []*Exam{}
	err := a.db.NewSelect().Model(&records).
		Where("?TableAlias.created_by = ?", createdBy).
		Order("exm.exam_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func prepareExamDefaults(record *Exam) {
	if record == nil {
		return
	}

	if record.Duration == 0 {
		record.Duration = DefaultExamDuration
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
