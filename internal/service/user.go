package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

const (
	msgEmailTaken      = "Пользователь с таким email уже существует."
	msgUsernameTaken   = "Пользователь с таким username уже существует."
	msgInvalidPassword = "Неверный пароль."
)

// UserService handles registration, lookup and password changes
type UserService struct {
	db       *gorm.DB
	hashCost int
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// CreateUser registers a new account. The response carries no is_subscribed flag.
func (s *UserService) CreateUser(ctx context.Context, req *types.CreateUserRequest) (*types.UserResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	var errs fieldErrors
	errs = append(errs, validation.ValidateStruct(req)...)
	if err := errs.err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken fieldErrors
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if n > 0 {
			taken.add("email", validation.KindInvalid, msgEmailTaken)
		}
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if n > 0 {
			taken.add("username", validation.KindInvalid, msgUsernameTaken)
		}
		if err := taken.err(); err != nil {
			return err
		}

		if err := tx.Create(&user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				var race fieldErrors
				race.add("username", validation.KindInvalid, msgUsernameTaken)
				return race.err()
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	out := types.NewUserResponse(&user, nil)
	return &out, nil
}

// GetUser returns one user with the caller's is_subscribed flag
func (s *UserService) GetUser(ctx context.Context, caller *types.Caller, id uuid.UUID) (*types.UserResponse, error) {
	var user models.User
	if err := findUser(s.db.WithContext(ctx), id, &user); err != nil {
		return nil, err
	}
	out, err := s.withFlags(ctx, caller, []models.User{user})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Me returns the caller's own account
func (s *UserService) Me(ctx context.Context, caller *types.Caller) (*types.UserResponse, error) {
	if caller == nil {
		return nil, Unauthorized(msgUnauthenticated)
	}
	return s.GetUser(ctx, caller, caller.ID)
}

// ListUsers returns a page of users ordered by username
func (s *UserService) ListUsers(ctx context.Context, caller *types.Caller, page types.PageRequest) (*types.Page[types.UserResponse], error) {
	page = page.Normalize()
	result := &types.Page[types.UserResponse]{Results: []types.UserResponse{}}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&result.Count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("username").Limit(page.Limit).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out, err := s.withFlags(ctx, caller, users)
	if err != nil {
		return nil, err
	}
	result.Results = out
	return result, nil
}

// SetPassword replaces the caller's password after checking the current one
func (s *UserService) SetPassword(ctx context.Context, caller *types.Caller, req *types.SetPasswordRequest) error {
	if caller == nil {
		return Unauthorized(msgUnauthenticated)
	}

	var errs fieldErrors
	errs = append(errs, validation.ValidateStruct(req)...)
	if err := errs.err(); err != nil {
		return err
	}

	var user models.User
	if err := findUser(s.db.WithContext(ctx), caller.ID, &user); err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		errs.add("current_password", validation.KindInvalid, msgInvalidPassword)
		return errs.err()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("password changed")
	return nil
}

func (s *UserService) withFlags(ctx context.Context, caller *types.Caller, users []models.User) ([]types.UserResponse, error) {
	var followed map[uuid.UUID]bool
	if caller != nil && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i := range users {
			ids[i] = users[i].ID
		}
		var err error
		followed, err = pluckSet(s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("user_id = ? AND author_id IN ?", caller.ID, ids), "author_id")
		if err != nil {
			return nil, err
		}
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		subscribed := followed[users[i].ID]
		out = append(out, types.NewUserResponse(&users[i], &subscribed))
	}
	return out, nil
}
