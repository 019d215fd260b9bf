package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func callerFor(u *models.User) *types.Caller {
	return &types.Caller{ID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}

func ptr[T any](v T) *T { return &v }

// requireKind asserts err is a service error of the given kind and returns it
func requireKind(t *testing.T, err error, kind service.ErrorKind) *service.Error {
	t.Helper()
	require.Error(t, err)
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, kind, svcErr.Kind, "unexpected error: %v", err)
	return svcErr
}

// kitchen is a small catalogue shared by recipe tests
type kitchen struct {
	db        *gorm.DB
	breakfast *models.Tag
	lunch     *models.Tag
	flour     *models.Ingredient
	sugar     *models.Ingredient
	milk      *models.Ingredient
}

func newKitchen(t *testing.T) *kitchen {
	db := testhelpers.SetupTestDB(t)
	return &kitchen{
		db:        db,
		breakfast: testhelpers.CreateTag(t, db, "breakfast"),
		lunch:     testhelpers.CreateTag(t, db, "lunch"),
		flour:     testhelpers.CreateIngredient(t, db, "flour", "g"),
		sugar:     testhelpers.CreateIngredient(t, db, "sugar", "g"),
		milk:      testhelpers.CreateIngredient(t, db, "milk", "ml"),
	}
}

func (k *kitchen) validWrite() *types.RecipeWriteRequest {
	return &types.RecipeWriteRequest{
		Tags: &[]uuid.UUID{k.breakfast.ID},
		Ingredients: &[]types.IngredientAmount{
			{ID: k.flour.ID, Amount: 200},
			{ID: k.milk.ID, Amount: 300},
		},
		Name:        ptr("Pancakes"),
		Text:        ptr("Mix and fry."),
		CookingTime: ptr(15),
		Image:       ptr(testhelpers.TestImage),
	}
}
