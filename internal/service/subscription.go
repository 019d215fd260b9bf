package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	msgSubscribeSelf    = "Невозможно подписаться на себя!"
	msgAlreadySubscribe = "Вы уже подписаны на этого пользователя!"
	msgNotSubscribed    = "Вы не подписаны на этого пользователя."
)

// SubscriptionService manages who follows whom
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes the caller follow authorID. recipesLimit caps the recipe preview; nil means all.
func (s *SubscriptionService) Subscribe(ctx context.Context, caller *types.Caller, authorID uuid.UUID, recipesLimit *int) (*types.SubscriptionResponse, error) {
	if caller == nil {
		return nil, Unauthorized(msgUnauthenticated)
	}
	if caller.ID == authorID {
		return nil, Invalid(msgSubscribeSelf)
	}

	var author models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findUser(tx, authorID, &author); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND author_id = ?", caller.ID, authorID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check subscription: %w", err)
		}
		if existing > 0 {
			return Invalid(msgAlreadySubscribe)
		}

		sub := models.Subscription{UserID: caller.ID, AuthorID: authorID}
		if err := tx.Omit("User", "Author").Create(&sub).Error; err != nil {
			switch {
			case database.IsCheckViolation(err):
				return Invalid(msgSubscribeSelf)
			case database.IsUniqueViolation(err):
				return Invalid(msgAlreadySubscribe)
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionChanges.WithLabelValues("subscribe").Inc()
	logging.Ctx(ctx).Info().Str("user_id", caller.ID.String()).Str("author_id", authorID.String()).Msg("subscribed")

	out, err := s.describe(ctx, []models.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Unsubscribe removes the caller's subscription to authorID
func (s *SubscriptionService) Unsubscribe(ctx context.Context, caller *types.Caller, authorID uuid.UUID) error {
	if caller == nil {
		return Unauthorized(msgUnauthenticated)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := findUser(tx, authorID, &author); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND author_id = ?", caller.ID, authorID).Delete(&models.Subscription{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete subscription: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return Invalid(msgNotSubscribed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.SubscriptionChanges.WithLabelValues("unsubscribe").Inc()
	logging.Ctx(ctx).Info().Str("user_id", caller.ID.String()).Str("author_id", authorID.String()).Msg("unsubscribed")
	return nil
}

// ListSubscriptions returns a page of the authors the caller follows, ordered by username
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, caller *types.Caller, recipesLimit *int, page types.PageRequest) (*types.Page[types.SubscriptionResponse], error) {
	if caller == nil {
		return nil, Unauthorized(msgUnauthenticated)
	}
	page = page.Normalize()

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", caller.ID)
	}

	result := &types.Page[types.SubscriptionResponse]{Results: []types.SubscriptionResponse{}}
	if err := query().Count(&result.Count).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	if err := query().
		Order("users.username").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	out, err := s.describe(ctx, authors, recipesLimit)
	if err != nil {
		return nil, err
	}
	result.Results = out
	return result, nil
}

// describe builds followed-author representations; the caller follows all of them
func (s *SubscriptionService) describe(ctx context.Context, authors []models.User, recipesLimit *int) ([]types.SubscriptionResponse, error) {
	out := make([]types.SubscriptionResponse, 0, len(authors))
	if len(authors) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}

	type authorCount struct {
		AuthorID uuid.UUID
		Total    int64
	}
	var counts []authorCount
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	totals := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		totals[c.AuthorID] = c.Total
	}

	subscribed := true
	for i := range authors {
		a := &authors[i]

		q := db.Where("author_id = ?", a.ID).Order("created_at DESC").Order("id")
		if recipesLimit != nil && *recipesLimit >= 0 {
			q = q.Limit(*recipesLimit)
		}
		var recipes []models.Recipe
		if err := q.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to load author recipes: %w", err)
		}

		preview := make([]types.RecipeShortResponse, 0, len(recipes))
		for j := range recipes {
			preview = append(preview, types.NewRecipeShortResponse(&recipes[j]))
		}

		out = append(out, types.SubscriptionResponse{
			UserResponse: types.NewUserResponse(a, &subscribed),
			Recipes:      preview,
			RecipesCount: totals[a.ID],
		})
	}
	return out, nil
}

func findUser(tx *gorm.DB, id uuid.UUID, dst *models.User) error {
	err := tx.First(dst, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	return nil
}
