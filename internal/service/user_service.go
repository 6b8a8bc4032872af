package service

import (
	"context"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
}

// ProfileInput holds the identity fields a user edits on their own profile.
type ProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// SignupInput is a new account request.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// IsAdmin reports whether the user may manage categories and locations.
func (s *UserService) IsAdmin(ctx context.Context, id uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// UpdateProfile edits the requester's own identity fields. There is no way
// to name another user here.
func (s *UserService) UpdateProfile(ctx context.Context, requesterID uint, in ProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fields := map[string]string{}
	if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = err.Error()
	}
	if len(in.FirstName) > 150 {
		fields["first_name"] = "first name must not exceed 150 characters"
	}
	if len(in.LastName) > 150 {
		fields["last_name"] = "last name must not exceed 150 characters"
	}
	if err := s.checkUnique(ctx, fields, in.Username, in.Email, user.ID); err != nil {
		return nil, err
	}
	if err := models.NewFieldsError(fields); err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup validates and stores a new account with a bcrypt password hash.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}

	fields := map[string]string{}
	if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if err := s.checkUnique(ctx, fields, in.Username, in.Email, 0); err != nil {
		return nil, err
	}
	if err := models.NewFieldsError(fields); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username-or-email and password pair.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.userRepo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// checkUnique adds field errors for a username or email held by another
// user. Fields that already failed format checks are skipped.
func (s *UserService) checkUnique(ctx context.Context, fields map[string]string, username, email string, excludeID uint) error {
	for field, value := range map[string]string{"username": username, "email": email} {
		if _, failed := fields[field]; failed {
			continue
		}
		taken, err := s.userRepo.IsTaken(ctx, field, value, excludeID)
		if err != nil {
			return err
		}
		if taken {
			fields[field] = "A user with that " + field + " already exists"
		}
	}
	return nil
}
