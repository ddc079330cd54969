package portal

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// Middleware is the surface the route registration needs from the HTTP
// authenticator
type Middleware interface {
	ProtectedRoute(requiredRole UserRole, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

// HTTPAuthenticator manages session cookies for the login handlers
type HTTPAuthenticator interface {
	Middleware
	Login(ctx router.Context, namespace IdentifierNamespace, identifier, password string) error
	Logout(ctx router.Context)
}

// RegisterAuthRoutes mounts the public login and registration surface
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.Get("/", controller.IndexShow).SetName("index.get")

	app.
		Get(controller.Routes.StudentLogin,
			controller.StudentLoginShow,
		).
		SetName("student-login.get")

	app.
		Post(
			controller.Routes.StudentLogin,
			controller.StudentLoginPost,
		).
		SetName("student-login.post")

	app.Get(controller.Routes.AdminLogin, controller.AdminLoginShow).
		SetName("admin-login.get")
	app.Post(controller.Routes.AdminLogin, controller.AdminLoginPost).
		SetName("admin-login.post")

	app.Get(controller.Routes.StudentRegister, controller.StudentRegisterShow).
		SetName("student-register.get")
	app.Post(controller.Routes.StudentRegister, controller.StudentRegisterPost).
		SetName("student-register.post")

	app.Get(controller.Routes.AdminRegister, controller.AdminRegisterShow).
		SetName("admin-register.get")
	app.Post(controller.Routes.AdminRegister, controller.AdminRegisterPost).
		SetName("admin-register.post")

	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")
}

type AuthControllerRoutes struct {
	StudentLogin    string
	AdminLogin      string
	StudentRegister string
	AdminRegister   string
	Logout          string
}

type AuthControllerViews struct {
	Index           string
	StudentLogin    string
	AdminLogin      string
	StudentRegister string
	AdminRegister   string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Views        *AuthControllerViews
	Auther       HTTPAuthenticator
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			StudentLogin:    "/student_login",
			AdminLogin:      "/admin_login",
			StudentRegister: "/student_register",
			AdminRegister:   "/admin_register",
			Logout:          "/logout",
		},
		Views: &AuthControllerViews{
			Index:           "index",
			StudentLogin:    "student_login",
			AdminLogin:      "admin_login",
			StudentRegister: "student_register",
			AdminRegister:   "admin_register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	return c
}

func WithAuthControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthControllerAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func (a *AuthController) IndexShow(ctx router.Context) error {
	return ctx.Render(a.Views.Index, router.ViewContext{})
}

func (a *AuthController) StudentLoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.StudentLogin, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// StudentLoginRequest payload
type StudentLoginRequest struct {
	StudentID string `form:"studentId" json:"studentId"`
	Password  string `form:"password" json:"password"`
}

func (a *AuthController) StudentLoginPost(ctx router.Context) error {
	payload := new(StudentLoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("student login parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if payload.StudentID == "" || payload.Password == "" {
		return ctx.JSON(http.StatusOK, router.ViewContext{
			"success": false,
			"message": "Student ID and password are required",
		})
	}

	if err := a.Auther.Login(ctx, NamespaceStudentID, payload.StudentID, payload.Password); err != nil {
		return a.loginFailed(ctx, err)
	}

	return ctx.JSON(http.StatusOK, router.ViewContext{
		"success": true,
	})
}

// loginFailed keeps the credential answer generic while refusing to disguise
// a store outage as a bad password. Anything that is not a credential
// mismatch answers 500 without internal detail.
func (a *AuthController) loginFailed(ctx router.Context, err error) error {
	if IsCredentialsError(err) {
		return ctx.JSON(http.StatusUnauthorized, router.ViewContext{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	a.Logger.Error("login backend failure", "error", err)
	return ctx.JSON(http.StatusInternalServerError, router.ViewContext{
		"success": false,
		"message": "Service temporarily unavailable",
	})
}

func (a *AuthController) AdminLoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.AdminLogin, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// AdminLoginRequest payload
type AdminLoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (a *AuthController) AdminLoginPost(ctx router.Context) error {
	payload := new(AdminLoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("admin login parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if payload.Email == "" || payload.Password == "" {
		return ctx.JSON(http.StatusOK, router.ViewContext{
			"success": false,
			"message": "Email and password are required",
		})
	}

	if err := a.Auther.Login(ctx, NamespaceEmail, payload.Email, payload.Password); err != nil {
		return a.loginFailed(ctx, err)
	}

	return ctx.JSON(http.StatusOK, router.ViewContext{
		"success": true,
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.Redirect("/", router.StatusTemporaryRedirect)
}

func (a *AuthController) StudentRegisterShow(ctx router.Context) error {
	return ctx.Render(a.Views.StudentRegister, router.ViewContext{
		"errors": map[string]string{},
		"record": RegisterStudentMessage{},
	})
}

// StudentRegisterPayload is the form payload
type StudentRegisterPayload struct {
	Name        string `form:"name" json:"name"`
	StudentID   string `form:"studentId" json:"studentId"`
	Mobile      string `form:"mobile" json:"mobile"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	Institution string `form:"institution" json:"institution"`
}

// Validate will validate the payload
func (r StudentRegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StudentID, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Mobile, validation.By(ValidMobileNumber)),
		validation.Field(&r.Email, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) StudentRegisterPost(ctx router.Context) error {
	payload := new(StudentRegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		errors := map[string]string{}
		errors["form"] = "Failed to parse form"
		a.Logger.Error("register student parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(http.StatusBadRequest).Render(a.Views.StudentRegister, router.ViewContext{
			"errors": errors,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		errors := FormatValidationErrorToMap(err)
		a.Logger.Error("register student validate payload: ", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.StudentRegister, router.ViewContext{
			"record":     payload,
			"validation": errors,
		})
	}

	req := RegisterStudentMessage{
		Name:        payload.Name,
		StudentID:   payload.StudentID,
		Mobile:      payload.Mobile,
		Email:       payload.Email,
		Institution: payload.Institution,
		Password:    payload.Password,
	}

	registerStudent := RegisterStudentHandler{repo: a.Repo}
	if err := registerStudent.Execute(ctx.Context(), req); err != nil {
		if IsConflictError(err) {
			return ctx.Status(http.StatusOK).SendString("User with this Student ID already exists")
		}

		a.Logger.Error("register student error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error registering student",
		}).Render(a.Views.StudentRegister, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return ctx.Redirect(a.Routes.StudentLogin, http.StatusFound)
}

func (a *AuthController) AdminRegisterShow(ctx router.Context) error {
	return ctx.Render(a.Views.AdminRegister, router.ViewContext{
		"errors": map[string]string{},
		"record": RegisterAdminMessage{},
	})
}

// AdminRegisterPayload is the form payload
type AdminRegisterPayload struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	Institution     string `form:"institution" json:"institution"`
}

// Validate will validate the payload
func (r AdminRegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) AdminRegisterPost(ctx router.Context) error {
	payload := new(AdminRegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		errors := map[string]string{}
		errors["form"] = "Failed to parse form"
		a.Logger.Error("register admin parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(http.StatusBadRequest).Render(a.Views.AdminRegister, router.ViewContext{
			"errors": errors,
			"record": payload,
		})
	}

	if payload.Password != payload.ConfirmPassword {
		return ctx.Status(http.StatusOK).SendString("Passwords do not match")
	}

	if err := payload.Validate(); err != nil {
		errors := FormatValidationErrorToMap(err)
		a.Logger.Error("register admin validate payload: ", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.AdminRegister, router.ViewContext{
			"record":     payload,
			"validation": errors,
		})
	}

	req := RegisterAdminMessage{
		Name:        payload.Name,
		Email:       payload.Email,
		Institution: payload.Institution,
		Password:    payload.Password,
	}

	registerAdmin := RegisterAdminHandler{repo: a.Repo}
	if err := registerAdmin.Execute(ctx.Context(), req); err != nil {
		if IsConflictError(err) {
			return ctx.Status(http.StatusOK).SendString("Admin with this email already exists")
		}

		a.Logger.Error("register admin error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error registering admin",
		}).Render(a.Views.AdminRegister, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return ctx.Redirect(a.Routes.AdminLogin, http.StatusFound)
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
