package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeList describes a per-user set of recipes backed by a (user_id, recipe_id) table
type RecipeList struct {
	Name         string
	AlreadyAdded string
	NotInList    string
	newRow       func(userID, recipeID uuid.UUID) interface{}
}

var (
	FavoritesList = RecipeList{
		Name:         "favorites",
		AlreadyAdded: "Рецепт уже в избранном.",
		NotInList:    "Рецепт не найден в избранном.",
		newRow: func(userID, recipeID uuid.UUID) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
	ShoppingCartList = RecipeList{
		Name:         "shopping_cart",
		AlreadyAdded: "Рецепт уже в списке покупок.",
		NotInList:    "Рецепт не найден в списке покупок.",
		newRow: func(userID, recipeID uuid.UUID) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
)

// RecipeListService adds recipes to and removes them from favorites and shopping carts
type RecipeListService struct {
	db *gorm.DB
}

func NewRecipeListService(db *gorm.DB) *RecipeListService {
	return &RecipeListService{db: db}
}

// Add puts the recipe into the caller's list and returns its short form
func (s *RecipeListService) Add(ctx context.Context, caller *types.Caller, list RecipeList, recipeID uuid.UUID) (*types.RecipeShortResponse, error) {
	if caller == nil {
		return nil, Unauthorized(msgUnauthenticated)
	}

	var short types.RecipeShortResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := listTarget(tx, recipeID)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(list.newRow(uuid.Nil, uuid.Nil)).
			Where("user_id = ? AND recipe_id = ?", caller.ID, recipeID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check %s: %w", list.Name, err)
		}
		if existing > 0 {
			return Conflict(list.AlreadyAdded)
		}

		if err := tx.Omit(clause.Associations).Create(list.newRow(caller.ID, recipeID)).Error; err != nil {
			// a concurrent add won the race
			if database.IsUniqueViolation(err) {
				return Conflict(list.AlreadyAdded)
			}
			return fmt.Errorf("failed to add to %s: %w", list.Name, err)
		}

		short = types.NewRecipeShortResponse(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecipeListChanges.WithLabelValues(list.Name, "add").Inc()
	logging.Ctx(ctx).Info().Str("list", list.Name).Str("recipe_id", recipeID.String()).Str("user_id", caller.ID.String()).Msg("recipe added")
	return &short, nil
}

// Remove takes the recipe out of the caller's list
func (s *RecipeListService) Remove(ctx context.Context, caller *types.Caller, list RecipeList, recipeID uuid.UUID) error {
	if caller == nil {
		return Unauthorized(msgUnauthenticated)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := listTarget(tx, recipeID); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", caller.ID, recipeID).Delete(list.newRow(uuid.Nil, uuid.Nil))
		if res.Error != nil {
			return fmt.Errorf("failed to remove from %s: %w", list.Name, res.Error)
		}
		if res.RowsAffected == 0 {
			return Conflict(list.NotInList)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecipeListChanges.WithLabelValues(list.Name, "remove").Inc()
	logging.Ctx(ctx).Info().Str("list", list.Name).Str("recipe_id", recipeID.String()).Str("user_id", caller.ID.String()).Msg("recipe removed")
	return nil
}

func listTarget(tx *gorm.DB, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := tx.First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgRecipeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}
