package db

import (
	"errors"
	"fmt"
	"sync"

	"city-route/model"

	"gorm.io/gorm"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository stores accounts.
type UserRepository interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
}

// GormUserRepository keeps users in the database.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(conn *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: conn}
}

func (r *GormUserRepository) Create(user *model.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// MemoryUserRepository is used when the server runs without a database.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]model.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (r *MemoryUserRepository) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return ErrUserExists
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = *user
	return nil
}

func (r *MemoryUserRepository) FindByUsername(username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
