package portal

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RegisterExamRoutes mounts the dashboard and exam management surface behind
// the session guard. Role requirements are declared per route.
func RegisterExamRoutes[T any](app router.Router[T], opts ...ExamControllerOption) {

	controller := NewExamController(opts...)

	adminOnly := controller.Auther.ProtectedRoute(RoleAdmin, nil)
	studentOnly := controller.Auther.ProtectedRoute(RoleStudent, nil)

	app.Get(controller.Routes.AdminDashboard, adminOnly(controller.AdminDashboard)).
		SetName("admin-dashboard.get")

	app.Get(controller.Routes.StudentDashboard, studentOnly(controller.StudentDashboard)).
		SetName("student-dashboard.get")

	app.Get(controller.Routes.CreateExam, adminOnly(controller.CreateExamShow)).
		SetName("create-exam.get")
	app.Post(controller.Routes.CreateExam, adminOnly(controller.CreateExamPost)).
		SetName("create-exam.post")

	app.Get(controller.Routes.FetchExams, adminOnly(controller.FetchExams)).
		SetName("fetch-exams.get")
}

type ExamControllerRoutes struct {
	AdminDashboard   string
	StudentDashboard string
	CreateExam       string
	FetchExams       string
}

type ExamControllerViews struct {
	AdminDashboard   string
	StudentDashboard string
	CreateExam       string
}

type ExamController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *ExamControllerRoutes
	Views        *ExamControllerViews
	Auther       Middleware
	Importer     *ExamImporter
	ContextKey   string
	ErrorHandler router.ErrorHandler
}

type ExamControllerOption func(*ExamController) *ExamController

func NewExamController(opts ...ExamControllerOption) *ExamController {
	c := &ExamController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		ContextKey:   "user",
		Routes: &ExamControllerRoutes{
			AdminDashboard:   "/admin_dashboard",
			StudentDashboard: "/student_dashboard",
			CreateExam:       "/create_exam",
			FetchExams:       "/fetch_exams",
		},
		Views: &ExamControllerViews{
			AdminDashboard:   "admin_dashboard",
			StudentDashboard: "student_dashboard",
			CreateExam:       "create_exam",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in exam controller...")
	}

	if c.Auther == nil {
		panic("Missing Middleware in exam controller...")
	}

	if c.Importer == nil {
		c.Importer = NewExamImporter(c.Repo, ExamImporterConfig{})
	}

	return c
}

func WithExamControllerRepo(repo RepositoryManager) ExamControllerOption {
	return func(c *ExamController) *ExamController {
		c.Repo = repo
		return c
	}
}

func WithExamControllerAuther(auther Middleware) ExamControllerOption {
	return func(c *ExamController) *ExamController {
		c.Auther = auther
		return c
	}
}

func WithExamControllerImporter(importer *ExamImporter) ExamControllerOption {
	return func(c *ExamController) *ExamController {
		c.Importer = importer
		return c
	}
}

// WithExamControllerContextKey aligns the controller's session lookup with
// the key the guard stores claims under.
func WithExamControllerContextKey(key string) ExamControllerOption {
	return func(c *ExamController) *ExamController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func WithExamControllerLogger(logger Logger) ExamControllerOption {
	return func(c *ExamController) *ExamController {
		c.Logger = logger
		return c
	}
}

func (a *ExamController) AdminDashboard(ctx router.Context) error {
	students, err := a.Repo.Users().ListByRole(ctx.Context(), RoleStudent)
	if err != nil {
		a.Logger.Error("admin dashboard list students", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.AdminDashboard, router.ViewContext{
		"students": students,
	})
}

func (a *ExamController) StudentDashboard(ctx router.Context) error {
	exams, err := a.Repo.Exams().ListAll(ctx.Context())
	if err != nil {
		a.Logger.Error("student dashboard list exams", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.StudentDashboard, router.ViewContext{
		"exams": exams,
	})
}

func (a *ExamController) CreateExamShow(ctx router.Context) error {
	return ctx.Render(a.Views.CreateExam, router.ViewContext{})
}

// CreateExamPayload is the exam authoring form payload
type CreateExamPayload struct {
	ExamName  string     `form:"examName" json:"examName"`
	Subject   string     `form:"subject" json:"subject"`
	Date      string     `form:"date" json:"date"`
	Questions []Question `form:"questions" json:"questions"`
}

// Validate will validate the payload
func (r CreateExamPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ExamName, validation.Required),
		validation.Field(&r.Subject, validation.Required),
		validation.Field(&r.Date, validation.Required),
		validation.Field(&r.Questions, validation.Required),
	)
}

func (a *ExamController) CreateExamPost(ctx router.Context) error {
	payload := new(CreateExamPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("create exam parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(http.StatusOK).SendString("All fields are required")
	}

	for _, question := range payload.Questions {
		if !ValidAnswerKey(question.CorrectAnswer) {
			return ctx.Status(http.StatusOK).SendString("All fields are required")
		}
	}

	session, err := GetRouterSession(ctx, a.ContextKey)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	createdBy := uuid.Nil
	if HasUserUUID(session) {
		createdBy, _ = session.GetUserUUID()
	}

	examDate := time.Now()
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, perr := time.Parse(layout, payload.Date); perr == nil {
			examDate = parsed
			break
		}
	}

	exam := &Exam{
		ExamName:  payload.ExamName,
		Subject:   payload.Subject,
		ExamDate:  examDate,
		Duration:  DefaultExamDuration,
		Questions: payload.Questions,
		CreatedBy: createdBy,
	}

	if _, err := a.Repo.Exams().Create(ctx.Context(), exam); err != nil {
		a.Logger.Error("create exam save", "error", err)
		return ctx.Status(http.StatusInternalServerError).SendString("Error creating exam")
	}

	return ctx.Redirect(a.Routes.AdminDashboard, http.StatusFound)
}

func (a *ExamController) FetchExams(ctx router.Context) error {
	session, err := GetRouterSession(ctx, a.ContextKey)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	createdBy := uuid.Nil
	if HasUserUUID(session) {
		createdBy, _ = session.GetUserUUID()
	}

	if _, err := a.Importer.Import(ctx.Context(), createdBy); err != nil {
		a.Logger.Error("fetch exams import", "error", err)
		return ctx.Status(http.StatusInternalServerError).SendString("Error fetching exams")
	}

	return ctx.Status(http.StatusCreated).SendString("Exams fetched and saved successfully")
}
