package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRunMigrationsCreatesSchema(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	for _, model := range database.Models() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasTable("recipe_tags"))

	// migrations are idempotent
	require.NoError(t, database.RunMigrations(db))
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestUniqueViolation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateIngredient(t, db, "salt", "g")

	err := db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsCheckViolation(err))
	assert.True(t, database.IsConstraintViolation(err))

	// same name with another unit is allowed
	require.NoError(t, db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "pinch"}).Error)
}

func TestSelfSubscriptionRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "alice")

	err := db.Create(&models.Subscription{UserID: user.ID, AuthorID: user.ID}).Error
	require.Error(t, err)
	assert.True(t, database.IsCheckViolation(err))
	assert.False(t, database.IsUniqueViolation(err))
}

func TestAmountCheckConstraint(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "alice")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "soup", nil, nil)

	line := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 0}
	err := db.Omit("Recipe", "Ingredient").Create(line).Error
	require.Error(t, err)
	assert.True(t, database.IsCheckViolation(err))
}

func TestDeletingUserCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "alice")
	reader := testhelpers.CreateUser(t, db, "bob")
	tag := testhelpers.CreateTag(t, db, "lunch")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "soup", []*models.Tag{tag},
		[]testhelpers.LineItem{{Ingredient: salt, Amount: 5}})

	require.NoError(t, db.Create(&models.Favorite{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.Subscription{UserID: reader.ID, AuthorID: author.ID}).Error)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", author.ID).Error)

	for name, model := range map[string]interface{}{
		"recipes":            &models.Recipe{},
		"recipe_ingredients": &models.RecipeIngredient{},
		"favorites":          &models.Favorite{},
		"shopping_carts":     &models.ShoppingCart{},
		"subscriptions":      &models.Subscription{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, name)
	}

	// reference data survives
	var tags, ingredients int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredients).Error)
	assert.Equal(t, int64(1), tags)
	assert.Equal(t, int64(1), ingredients)
}

func TestConstraintHelpersIgnoreOtherErrors(t *testing.T) {
	err := errors.New("connection reset")
	assert.False(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsCheckViolation(err))
	assert.False(t, database.IsConstraintViolation(nil))
}
