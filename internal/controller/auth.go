package controller

import (
	"strings"

	"go.uber.org/zap"

	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUserExists         = "User already exists"
	msgUserInvalid        = "Username and password are required"
)

// Auth tracks the logged-in user and manages accounts
type Auth struct {
	*notify.Bus[AuthEvent]
	users   UserStore
	current slot[models.AuthUser]
	logger  *zap.Logger
}

// NewAuth creates an anonymous auth controller
func NewAuth(users UserStore, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{
		Bus:    notify.NewBus[AuthEvent]("auth", logger),
		users:  users,
		logger: logger,
	}
}

// Login authenticates and, on success, makes the user current
func (c *Auth) Login(username, password string) (models.AuthUser, bool) {
	user, ok := c.users.Authenticate(username, password)
	if !ok {
		c.logger.Info("Login failed", zap.String("username", username))
		c.Notify(LoginFailed{Message: msgInvalidCredentials})
		return models.AuthUser{}, false
	}
	c.current.set(user)
	c.logger.Info("User logged in", zap.String("username", user.Username), zap.String("role", user.Role))
	c.Notify(LoginSucceeded{User: user})
	return user, true
}

// Logout clears the current user unconditionally
func (c *Auth) Logout() {
	if user, ok := c.current.get(); ok {
		c.logger.Info("User logged out", zap.String("username", user.Username))
	}
	c.current.restore(nil)
	c.Notify(LoggedOut{})
}

// CurrentUser returns the logged-in user, if any
func (c *Auth) CurrentUser() (models.AuthUser, bool) {
	return c.current.get()
}

// IsAuthenticated reports whether a user is logged in
func (c *Auth) IsAuthenticated() bool {
	_, ok := c.current.get()
	return ok
}

// AddUser stores a new account. It fails if the username is taken or the
// username or password is blank.
func (c *Auth) AddUser(user models.AuthUser) bool {
	if strings.TrimSpace(user.Username) == "" || user.Password == "" {
		c.Notify(UserInvalid{Message: msgUserInvalid})
		return false
	}
	if _, exists := c.users.GetByID(user.Username); exists {
		c.Notify(UserExists{Message: msgUserExists})
		return false
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	c.users.Save(user)
	c.logger.Info("User added", zap.String("username", user.Username), zap.String("role", user.Role))
	c.Notify(UserAdded{User: user})
	return true
}

// Users lists accounts in storage order
func (c *Auth) Users() []models.AuthUser {
	return c.users.GetAll()
}
