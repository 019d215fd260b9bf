package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// recipeScalars holds the plain recipe columns after merging a payload over the stored values
type recipeScalars struct {
	Name        string `json:"name" validate:"required,max=200"`
	Text        string `json:"text" validate:"required"`
	CookingTime int    `json:"cooking_time" validate:"gte=1,lte=32000"`
	Image       string `json:"image" validate:"required,encoded_image"`
}

// recipeInput is a validated recipe write
type recipeInput struct {
	recipeScalars
	TagIDs []uuid.UUID
	Items  []types.IngredientAmount
}

const (
	msgFieldRequired        = "Обязательное поле."
	msgTagsEmpty            = "Поле tags не может быть пустым."
	msgTagsDuplicate        = "Теги не должны повторяться."
	msgTagsMissing          = "Один или несколько тегов не существуют."
	msgIngredientsEmpty     = "Поле ingredients не может быть пустым."
	msgIngredientsDuplicate = "Ингредиенты не должны повторяться."
	msgIngredientsMissing   = "Один или несколько ингредиентов не существуют."
)

var msgAmountRange = fmt.Sprintf("Количество ингредиента должно быть от %d до %d.", models.MinAmount, models.MaxAmount)

// validateRecipeWrite checks a create (current == nil) or update payload.
// tags and ingredients are required in both cases; scalars omitted on update keep their stored value.
func validateRecipeWrite(tx *gorm.DB, req *types.RecipeWriteRequest, current *models.Recipe) (*recipeInput, error) {
	var in recipeInput
	if current != nil {
		in.recipeScalars = recipeScalars{
			Name:        current.Name,
			Text:        current.Text,
			CookingTime: current.CookingTime,
			Image:       current.Image,
		}
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Text != nil {
		in.Text = *req.Text
	}
	if req.CookingTime != nil {
		in.CookingTime = *req.CookingTime
	}
	if req.Image != nil {
		in.Image = *req.Image
	}

	var errs fieldErrors
	errs = append(errs, validation.ValidateStruct(&in.recipeScalars)...)

	if err := validateTags(tx, req.Tags, &errs); err != nil {
		return nil, err
	}
	if err := validateIngredients(tx, req.Ingredients, &errs); err != nil {
		return nil, err
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	in.TagIDs = *req.Tags
	in.Items = *req.Ingredients
	return &in, nil
}

func validateTags(tx *gorm.DB, tags *[]uuid.UUID, errs *fieldErrors) error {
	switch {
	case tags == nil:
		errs.add("tags", validation.KindRequired, msgFieldRequired)
		return nil
	case len(*tags) == 0:
		errs.add("tags", validation.KindRequired, msgTagsEmpty)
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(*tags))
	for _, id := range *tags {
		if _, dup := seen[id]; dup {
			errs.add("tags", validation.KindDuplicate, msgTagsDuplicate)
			return nil
		}
		seen[id] = struct{}{}
	}

	var found int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", *tags).Count(&found).Error; err != nil {
		return fmt.Errorf("failed to look up tags: %w", err)
	}
	if int(found) != len(*tags) {
		errs.add("tags", validation.KindNotFound, msgTagsMissing)
	}
	return nil
}

func validateIngredients(tx *gorm.DB, items *[]types.IngredientAmount, errs *fieldErrors) error {
	switch {
	case items == nil:
		errs.add("ingredients", validation.KindRequired, msgFieldRequired)
		return nil
	case len(*items) == 0:
		errs.add("ingredients", validation.KindRequired, msgIngredientsEmpty)
		return nil
	}

	ids := make([]uuid.UUID, 0, len(*items))
	seen := make(map[uuid.UUID]struct{}, len(*items))
	duplicate, outOfRange := false, false
	for _, item := range *items {
		if _, dup := seen[item.ID]; dup {
			duplicate = true
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
		if item.Amount < models.MinAmount || item.Amount > models.MaxAmount {
			outOfRange = true
		}
	}
	if duplicate {
		errs.add("ingredients", validation.KindDuplicate, msgIngredientsDuplicate)
	}
	if outOfRange {
		errs.add("ingredients", validation.KindOutOfRange, msgAmountRange)
	}

	var found int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return fmt.Errorf("failed to look up ingredients: %w", err)
	}
	if int(found) != len(seen) {
		errs.add("ingredients", validation.KindNotFound, msgIngredientsMissing)
	}
	return nil
}
