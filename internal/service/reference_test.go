package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestListIngredientsPrefix(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	for _, name := range []string{"Sugar", "salt", "sage", "pepper", "50%_cream"} {
		testhelpers.CreateIngredient(t, db, name, "g")
	}

	names := func(list []models.Ingredient) []string {
		out := make([]string, 0, len(list))
		for _, i := range list {
			out = append(out, i.Name)
		}
		return out
	}

	got, err := svc.ListIngredients(ctx, "sa")
	require.NoError(t, err)
	assert.Equal(t, []string{"sage", "salt"}, names(got))

	got, err = svc.ListIngredients(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sugar", "sage", "salt"}, names(got))

	got, err = svc.ListIngredients(ctx, "SU")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sugar"}, names(got))

	got, err = svc.ListIngredients(ctx, "50%")
	require.NoError(t, err)
	assert.Equal(t, []string{"50%_cream"}, names(got))

	got, err = svc.ListIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got, "wildcards match literally")

	got, err = svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestGetIngredientAndTag(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)
	ctx := context.Background()

	tag := testhelpers.CreateTag(t, db, "dinner")
	ing := testhelpers.CreateIngredient(t, db, "rice", "g")

	gotTag, err := tags.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", gotTag.Slug)

	gotIng, err := ingredients.GetIngredient(ctx, ing.ID)
	require.NoError(t, err)
	assert.Equal(t, "rice", gotIng.Name)

	_, err = tags.GetTag(ctx, uuid.New())
	requireKind(t, err, service.KindNotFound)
	_, err = ingredients.GetIngredient(ctx, uuid.New())
	requireKind(t, err, service.KindNotFound)
}

func TestEnsureReferenceData(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)
	ctx := context.Background()

	n, err := tags.EnsureTags(ctx, []models.Tag{{Name: "Early Breakfast"}, {Name: "Lunch", Color: "#00FF00"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early-breakfast", list[0].Slug)
	assert.Equal(t, models.DefaultTagColor, list[0].Color)
	assert.Equal(t, "#00FF00", list[1].Color)

	n, err = tags.EnsureTags(ctx, []models.Tag{{Name: "Lunch"}})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ingredients.EnsureIngredients(ctx, []models.Ingredient{
		{Name: "rice", MeasurementUnit: "g"},
		{Name: "rice", MeasurementUnit: "cup"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = ingredients.EnsureIngredients(ctx, []models.Ingredient{{Name: "rice", MeasurementUnit: "g"}})
	require.NoError(t, err)
	assert.Zero(t, n)
}
