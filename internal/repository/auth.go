package repository

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"smarthome-panel/internal/models"
)

// DefaultUsers are written to the account store on first start
var DefaultUsers = []models.AuthUser{
	{Username: "admin", Password: "admin123", Role: models.RoleAdmin, FullName: "Administrator"},
	{Username: "user1", Password: "user123", Role: models.RoleUser, FullName: "Regular user"},
	{Username: "specialist", Password: "spec123", Role: models.RoleSpecialist, FullName: "Specialist"},
}

// AuthRepository is the durable account collection backed by users.json.
// Accounts cannot be deleted.
type AuthRepository struct {
	users  *Memory[string, models.AuthUser]
	file   jsonFile[models.AuthUser]
	logger *zap.Logger
}

// NewAuthRepository loads the account store, seeding the default accounts
// when no file exists yet
func NewAuthRepository(path string, logger *zap.Logger) *AuthRepository {
	r := &AuthRepository{
		users:  NewMemory(func(u models.AuthUser) string { return u.Username }),
		file:   jsonFile[models.AuthUser]{path: path},
		logger: logger,
	}
	r.Load()
	return r
}

// Load reads the account store. A missing file is seeded with DefaultUsers
// and written immediately; an unreadable file leaves the defaults in memory
// and the file untouched.
func (r *AuthRepository) Load() {
	r.users.Replace(DefaultUsers)

	items, err := r.file.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.logger.Info("Seeding default accounts", zap.String("path", r.file.path))
		r.persist()
	case err != nil:
		r.logger.Warn("Account store unreadable, using default accounts",
			zap.String("path", r.file.path),
			zap.Error(err),
		)
	default:
		r.users.Replace(items)
	}
}

// Persist overwrites the file with the current collection
func (r *AuthRepository) Persist() error {
	return r.file.write(r.users.GetAll())
}

func (r *AuthRepository) GetByID(username string) (models.AuthUser, bool) {
	return r.users.GetByID(username)
}

func (r *AuthRepository) GetAll() []models.AuthUser {
	return r.users.GetAll()
}

// Save upserts the account and persists the collection
func (r *AuthRepository) Save(item models.AuthUser) {
	r.users.Save(item)
	r.persist()
}

// Create is an alias for Save
func (r *AuthRepository) Create(item models.AuthUser) {
	r.Save(item)
}

// Authenticate returns the account whose username and password both match
// exactly
func (r *AuthRepository) Authenticate(username, password string) (models.AuthUser, bool) {
	user, ok := r.users.GetByID(username)
	if !ok || user.Password != password {
		return models.AuthUser{}, false
	}
	return user, true
}

func (r *AuthRepository) persist() {
	if err := r.Persist(); err != nil {
		r.logger.Error("Failed to persist accounts", zap.Error(err))
	}
}
