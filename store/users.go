package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkpost/blog-backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username does not exist, so the
// lookup path costs the same as a real password check (hash of "placeholder",
// cost 12).
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// CredentialStore holds the admin users and verifies logins.
type CredentialStore struct {
	db   *gorm.DB
	cost int
}

func NewCredentialStore(db *gorm.DB, bcryptCost int) *CredentialStore {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &CredentialStore{db: db, cost: bcryptCost}
}

// Verify checks a username/password pair. Any failure, including an unknown
// username, yields ErrInvalidCredentials. On success the user's last_login is
// stamped.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn the same bcrypt work as a real check.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}
	user.LastLogin = &now

	return &user, nil
}

// CreateOrUpdate upserts a user by username with a freshly hashed password.
// Only the setup tooling calls this.
func (s *CredentialStore) CreateOrUpdate(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = string(hash)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: username, PasswordHash: string(hash)}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &user, nil
}
