package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListHeader = "Список ингредиентов для покупки:"

// ShoppingListService aggregates the ingredients of every recipe in a user's cart
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Compute sums line item amounts per (ingredient name, unit) across the caller's cart.
// Rows are ordered by name, then unit.
func (s *ShoppingListService) Compute(ctx context.Context, caller *types.Caller) ([]types.ShoppingListItem, error) {
	if caller == nil {
		return nil, Unauthorized(msgUnauthenticated)
	}

	items := []types.ShoppingListItem{}
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total_amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_carts AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", caller.ID).
		Group("i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	return items, nil
}

// Render computes the caller's list and returns the file name and plain text body
func (s *ShoppingListService) Render(ctx context.Context, caller *types.Caller) (string, string, error) {
	items, err := s.Compute(ctx, caller)
	if err != nil {
		return "", "", err
	}

	metrics.ShoppingListDownloads.Inc()
	logging.Ctx(ctx).Debug().Str("user_id", caller.ID.String()).Int("lines", len(items)).Msg("shopping list rendered")
	return ShoppingListFileName(caller.Username), FormatShoppingList(items), nil
}

// FormatShoppingList renders the header followed by one "name: amount unit" line per item
func FormatShoppingList(items []types.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}

// ShoppingListFileName is the attachment name offered for download
func ShoppingListFileName(username string) string {
	return "shopping_cart_" + slug.Make(username) + ".txt"
}
