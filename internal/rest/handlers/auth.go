package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authform "github.com/taskboard/taskboard_server/internal/rest/forms/auth"
	"github.com/taskboard/taskboard_server/internal/rest/middleware"
	"github.com/taskboard/taskboard_server/internal/rest/models"
	"github.com/taskboard/taskboard_server/internal/store"
	"github.com/taskboard/taskboard_server/pkg/rest/response"
)

type Auth struct {
	log   *logrus.Logger
	store *store.Store
}

func NewAuthHandler(st *store.Store, log *logrus.Logger) *Auth {
	return &Auth{
		log:   log,
		store: st,
	}
}

func (h *Auth) EnrichRoutes(router *gin.Engine) {
	authRoutes := router.Group("/auth")
	authRoutes.POST("/register", h.registerAction)
	authRoutes.POST("/login", h.loginAction)
	authRoutes.POST("/logout", h.logoutAction)
	authRoutes.GET("/session", h.sessionAction)
}

func (h *Auth) registerAction(c *gin.Context) {
	const op = "handlers.Auth.registerAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("register user")

	form, verr := authform.NewRegisterForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*authform.RegisterForm)
	log.WithFields(logrus.Fields(f.ConvertToMap())).Debug("form parsed")

	if _, exists := h.store.FindByEmail(f.Email); exists {
		log.WithField("email", f.Email).Warnf("%s: email already registered", op)
		response.HandleError(response.NewUserExistError(), c)
		return
	}

	user, err := h.store.Register(f.Name, f.Email, f.Password)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to persist users", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}

	c.JSON(http.StatusCreated, models.UserFromStore(user))
}

func (h *Auth) loginAction(c *gin.Context) {
	const op = "handlers.Auth.loginAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("login user")

	form, verr := authform.NewLoginForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*authform.LoginForm)
	log.WithFields(logrus.Fields(f.ConvertToMap())).Debug("form parsed")

	user, err := h.store.Authenticate(f.Email, f.Password)
	if err != nil {
		log.WithField("email", f.Email).Warnf("%s: credential mismatch", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	if err := h.store.Login(user); err != nil {
		log.WithError(err).Errorf("%s: failed to persist session", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}

	u := models.UserFromStore(user)
	c.JSON(http.StatusOK, models.Session{
		User:            &u,
		IsAuthenticated: true,
	})
}

func (h *Auth) logoutAction(c *gin.Context) {
	const op = "handlers.Auth.logoutAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("logout user")

	if err := h.store.Logout(); err != nil {
		log.WithError(err).Errorf("%s: failed to clear persisted session", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}

	c.JSON(http.StatusOK, models.Session{IsAuthenticated: false})
}

func (h *Auth) sessionAction(c *gin.Context) {
	const op = "handlers.Auth.sessionAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Debug("get session")

	user, ok := h.store.Session()
	if !ok {
		c.JSON(http.StatusOK, models.Session{IsAuthenticated: false})
		return
	}

	u := models.UserFromStore(user)
	c.JSON(http.StatusOK, models.Session{
		User:            &u,
		IsAuthenticated: true,
	})
}
