package portal

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Role is fixed at registration and never mutated;
// students are unique by student_id, admins by email.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	StudentID     string     `bun:"student_id,nullzero" json:"student_id,omitempty"`
	Email         string     `bun:"email,nullzero" json:"email,omitempty"`
	Mobile        string     `bun:"mobile" json:"mobile,omitempty"`
	Institution   string     `bun:"institution" json:"institution,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AnswerKey is one of the four option letters
type AnswerKey = string

// QuestionOptions holds the four candidate answers
type QuestionOptions struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Question is a single multiple-choice question embedded in an exam
type Question struct {
	QuestionText  string          `json:"questionText"`
	Options       QuestionOptions `json:"options"`
	CorrectAnswer AnswerKey       `json:"correctAnswer"`
}

// ValidAnswerKey accepts only A, B, C or D
func ValidAnswerKey(k AnswerKey) bool {
	switch k {
	case "A", "B", "C", "D":
		return true
	default:
		return false
	}
}

// DefaultExamDuration is applied when an exam is created without one
const DefaultExamDuration = 60

// Exam is the exam model; questions are stored embedded as JSON
type Exam struct {
	bun.BaseModel `bun:"table:exams,alias:exm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ExamName      string     `bun:"exam_name,notnull" json:"examName"`
	Subject       string     `bun:"subject,notnull" json:"subject"`
	ExamDate      time.Time  `bun:"exam_date,notnull" json:"examDate"`
	Duration      int        `bun:"duration,notnull,default:60" json:"duration,omitempty"`
	Questions     []Question `bun:"questions,type:jsonb" json:"questions"`
	CreatedBy     uuid.UUID  `bun:"created_by,nullzero,type:uuid" json:"created_by,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
