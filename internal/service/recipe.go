package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe validates req and stores the recipe with its tags and line items in one transaction
func (s *RecipeService) CreateRecipe(ctx context.Context, caller *types.Caller, req *types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	if caller == nil {
		return nil, Unauthorized(msgUnauthenticated)
	}

	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		in, err := validateRecipeWrite(tx, req, nil)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			AuthorID:    caller.ID,
			Name:        in.Name,
			Text:        in.Text,
			Image:       in.Image,
			CookingTime: in.CookingTime,
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := replaceRecipeTags(tx, recipe.ID, in.TagIDs); err != nil {
			return err
		}
		if err := replaceRecipeIngredients(tx, recipe.ID, in.Items); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecipeWrites.WithLabelValues("create").Inc()
	logging.Ctx(ctx).Info().Str("recipe_id", recipeID.String()).Str("author_id", caller.ID.String()).Msg("recipe created")
	return s.GetRecipe(ctx, caller, recipeID)
}

// UpdateRecipe applies req to the recipe, replacing its tags and line items atomically
func (s *RecipeService) UpdateRecipe(ctx context.Context, caller *types.Caller, id uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		if err := IsAuthorOrReadOnly(caller, recipe, ActionUpdate); err != nil {
			return err
		}

		in, err := validateRecipeWrite(tx, req, recipe)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"image":        in.Image,
			"cooking_time": in.CookingTime,
		}
		if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := replaceRecipeTags(tx, recipe.ID, in.TagIDs); err != nil {
			return err
		}
		return replaceRecipeIngredients(tx, recipe.ID, in.Items)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecipeWrites.WithLabelValues("update").Inc()
	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, caller, id)
}

// DeleteRecipe removes the recipe and everything referencing it
func (s *RecipeService) DeleteRecipe(ctx context.Context, caller *types.Caller, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		if err := IsAuthorOrReadOnly(caller, recipe, ActionDelete); err != nil {
			return err
		}

		for _, dependant := range []interface{}{
			&models.RecipeTag{},
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependant).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependants: %w", err)
			}
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecipeWrites.WithLabelValues("delete").Inc()
	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

// GetRecipe returns one hydrated recipe
func (s *RecipeService) GetRecipe(ctx context.Context, caller *types.Caller, id uuid.UUID) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	out, err := s.hydrate(ctx, caller, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func isSet(flag *bool) bool { return flag != nil && *flag }

// ListRecipes returns one page of recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, caller *types.Caller, filter types.RecipeFilter, page types.PageRequest) (*types.Page[types.RecipeResponse], error) {
	page = page.Normalize()
	result := &types.Page[types.RecipeResponse]{Results: []types.RecipeResponse{}}

	// any favorites or cart filter, even a false one, leaves anonymous callers with nothing
	if caller == nil && (filter.IsFavorited != nil || filter.IsInShoppingCart != nil) {
		return result, nil
	}

	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Recipe{})
		if len(filter.TagSlugs) > 0 {
			q = q.Where("recipes.id IN (?)", s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
		}
		if len(filter.AuthorIDs) > 0 {
			q = q.Where("recipes.author_id IN ?", filter.AuthorIDs)
		}
		if isSet(filter.IsFavorited) {
			q = q.Where("recipes.id IN (?)", s.db.Model(&models.Favorite{}).
				Select("recipe_id").Where("user_id = ?", caller.ID))
		}
		if isSet(filter.IsInShoppingCart) {
			q = q.Where("recipes.id IN (?)", s.db.Model(&models.ShoppingCart{}).
				Select("recipe_id").Where("user_id = ?", caller.ID))
		}
		return q
	}

	if err := query().Count(&result.Count).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := preloadRecipe(query()).
		Order("recipes.created_at DESC").
		Order("recipes.id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	out, err := s.hydrate(ctx, caller, recipes)
	if err != nil {
		return nil, err
	}
	result.Results = out
	return result, nil
}

func findRecipe(tx *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := tx.First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

func preloadRecipe(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient")
}

func replaceRecipeTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to set recipe tags: %w", err)
	}
	return nil
}

func replaceRecipeIngredients(tx *gorm.DB, recipeID uuid.UUID, items []types.IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: item.ID, Amount: item.Amount})
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to set recipe ingredients: %w", err)
	}
	return nil
}

// hydrate converts recipes to responses with the caller's favorite, cart and subscription flags
func (s *RecipeService) hydrate(ctx context.Context, caller *types.Caller, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	out := make([]types.RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	var favorites, cart, followed map[uuid.UUID]bool
	if caller != nil {
		recipeIDs := make([]uuid.UUID, len(recipes))
		authorIDs := make([]uuid.UUID, len(recipes))
		for i := range recipes {
			recipeIDs[i] = recipes[i].ID
			authorIDs[i] = recipes[i].AuthorID
		}

		var err error
		db := s.db.WithContext(ctx)
		if favorites, err = pluckSet(db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id IN ?", caller.ID, recipeIDs), "recipe_id"); err != nil {
			return nil, err
		}
		if cart, err = pluckSet(db.Model(&models.ShoppingCart{}).Where("user_id = ? AND recipe_id IN ?", caller.ID, recipeIDs), "recipe_id"); err != nil {
			return nil, err
		}
		if followed, err = pluckSet(db.Model(&models.Subscription{}).Where("user_id = ? AND author_id IN ?", caller.ID, authorIDs), "author_id"); err != nil {
			return nil, err
		}
	}

	for i := range recipes {
		r := &recipes[i]
		subscribed := followed[r.AuthorID]

		ingredients := make([]types.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, line := range r.Ingredients {
			ingredients = append(ingredients, types.RecipeIngredientResponse{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		sort.Slice(ingredients, func(a, b int) bool { return ingredients[a].Name < ingredients[b].Name })

		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}

		out = append(out, types.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           types.NewUserResponse(&r.Author, &subscribed),
			Ingredients:      ingredients,
			IsFavorited:      favorites[r.ID],
			IsInShoppingCart: cart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}

// pluckSet collects one uuid column of q into a set
func pluckSet(q *gorm.DB, column string) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := q.Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", column, err)
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
