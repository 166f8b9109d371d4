package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/database/admins"
	"github.com/mrlokans/tourism/internal/database/users"
	"github.com/mrlokans/tourism/internal/entities"
)

// errBadLogin is shared by both login checks so the notice never says
// whether the email or the password was wrong.
const errBadLogin = "Invalid email or password."

// DB is the request connection the service works on. *database.Conn
// implements it.
type DB interface {
	Gorm() *gorm.DB
	IsDuplicateKey(err error) bool
}

// Service handles registration, login checks and password changes for
// both customer and admin accounts.
type Service struct {
	db     DB
	users  *users.Repository
	admins *admins.Repository
	config config.Auth
}

// NewService creates a new authentication service on a request connection.
func NewService(db DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		users:  users.NewRepository(db.Gorm()),
		admins: admins.NewRepository(db.Gorm()),
		config: cfg,
	}
}

func validation(msg string) error {
	return fmt.Errorf("%w: %s", apperr.ErrValidation, msg)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Register creates a customer account.
func (s *Service) Register(fullname, email, password string) (*entities.User, error) {
	if blank(fullname, email, password) {
		return nil, validation("All fields are required.")
	}
	email = strings.TrimSpace(email)

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: Email already registered.", apperr.ErrDuplicateEmail)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Fullname:     strings.TrimSpace(fullname),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		// another request registered the same email since the check above
		if s.db.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: Email already registered.", apperr.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// RegisterAdmin creates a back-office account.
func (s *Service) RegisterAdmin(fullname, email, password, confirm string) (*entities.Admin, error) {
	if blank(fullname, email, password, confirm) {
		return nil, validation("All fields are required!")
	}
	if password != confirm {
		return nil, fmt.Errorf("%w: Passwords do not match!", apperr.ErrMismatch)
	}
	email = strings.TrimSpace(email)

	exists, err := s.admins.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: Email already exists.", apperr.ErrDuplicateEmail)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &entities.Admin{
		Fullname:     strings.TrimSpace(fullname),
		Email:        email,
		PasswordHash: hash,
		Role:         entities.DefaultAdminRole,
		Avatar:       entities.DefaultAdminAvatar,
	}
	if err := s.admins.Create(admin); err != nil {
		if s.db.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: Email already exists.", apperr.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// Authenticate validates customer credentials and returns the user.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidCredentials, errBadLogin)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidCredentials, errBadLogin)
	}
	s.rehash(password, user.PasswordHash, func(hash string) error {
		return s.users.UpdatePasswordHash(user.ID, hash)
	})
	return user, nil
}

// AuthenticateAdmin validates admin credentials and returns the admin.
func (s *Service) AuthenticateAdmin(email, password string) (*entities.Admin, error) {
	admin, err := s.admins.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidCredentials, errBadLogin)
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if err := CheckPassword(password, admin.PasswordHash); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidCredentials, errBadLogin)
	}
	s.rehash(password, admin.PasswordHash, func(hash string) error {
		return s.admins.UpdatePasswordHash(admin.ID, hash)
	})
	return admin, nil
}

// rehash moves a hash to the configured bcrypt cost after a successful
// login. A failed upgrade is retried on the next login.
func (s *Service) rehash(password, hash string, save func(string) error) {
	if !NeedsRehash(hash, s.config.BcryptCost) {
		return
	}
	if upgraded, err := HashPassword(password, s.config.BcryptCost); err == nil {
		_ = save(upgraded)
	}
}

// checkNewPassword verifies the current password and hashes the new one.
func (s *Service) checkNewPassword(currentHash, current, newPassword, confirm string) (string, error) {
	if err := CheckPassword(current, currentHash); err != nil {
		return "", fmt.Errorf("%w: Incorrect current password.", apperr.ErrInvalidCredentials)
	}
	if newPassword != confirm {
		return "", fmt.Errorf("%w: New passwords do not match.", apperr.ErrMismatch)
	}
	if strings.TrimSpace(newPassword) == "" {
		return "", validation("New password is required.")
	}
	return HashPassword(newPassword, s.config.BcryptCost)
}

// ChangePassword updates a customer's password.
func (s *Service) ChangePassword(userID uint, current, newPassword, confirm string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	hash, err := s.checkNewPassword(user.PasswordHash, current, newPassword, confirm)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(userID, hash)
}

// ChangeAdminPassword updates an admin's password.
func (s *Service) ChangeAdminPassword(adminID uint, current, newPassword, confirm string) error {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return err
	}
	hash, err := s.checkNewPassword(admin.PasswordHash, current, newPassword, confirm)
	if err != nil {
		return err
	}
	return s.admins.UpdatePasswordHash(adminID, hash)
}

// GetUser retrieves a customer by id.
func (s *Service) GetUser(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}

// UpdateProfile overwrites a customer's editable profile fields. Name and
// email are required and the email must not belong to another user.
func (s *Service) UpdateProfile(userID uint, p users.ProfileUpdate) error {
	p.Fullname = strings.TrimSpace(p.Fullname)
	p.Email = strings.TrimSpace(p.Email)
	if p.Fullname == "" || p.Email == "" {
		return validation("Name and email are required.")
	}

	taken, err := s.users.EmailTakenByOther(p.Email, userID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: Email already registered.", apperr.ErrDuplicateEmail)
	}

	if err := s.users.UpdateProfile(userID, p); err != nil {
		if s.db.IsDuplicateKey(err) {
			return fmt.Errorf("%w: Email already registered.", apperr.ErrDuplicateEmail)
		}
		return err
	}
	return nil
}

// EmailExists reports whether a customer account uses email.
func (s *Service) EmailExists(email string) (bool, error) {
	return s.users.EmailExists(strings.TrimSpace(email))
}

// AdminEmailExists reports whether an admin account uses email.
func (s *Service) AdminEmailExists(email string) (bool, error) {
	return s.admins.EmailExists(strings.TrimSpace(email))
}
