package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, req *types.LoginRequest) (string, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for account operations
type IUserService interface {
	CreateUser(ctx context.Context, req *types.CreateUserRequest) (*types.UserResponse, error)
	GetUser(ctx context.Context, caller *types.Caller, id uuid.UUID) (*types.UserResponse, error)
	Me(ctx context.Context, caller *types.Caller) (*types.UserResponse, error)
	ListUsers(ctx context.Context, caller *types.Caller, page types.PageRequest) (*types.Page[types.UserResponse], error)
	SetPassword(ctx context.Context, caller *types.Caller, req *types.SetPasswordRequest) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, caller *types.Caller, req *types.RecipeWriteRequest) (*types.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, caller *types.Caller, id uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, caller *types.Caller, id uuid.UUID) error
	GetRecipe(ctx context.Context, caller *types.Caller, id uuid.UUID) (*types.RecipeResponse, error)
	ListRecipes(ctx context.Context, caller *types.Caller, filter types.RecipeFilter, page types.PageRequest) (*types.Page[types.RecipeResponse], error)
}

// IRecipeListService defines the interface for favorites and shopping cart membership
type IRecipeListService interface {
	Add(ctx context.Context, caller *types.Caller, list RecipeList, recipeID uuid.UUID) (*types.RecipeShortResponse, error)
	Remove(ctx context.Context, caller *types.Caller, list RecipeList, recipeID uuid.UUID) error
}

// IShoppingListService defines the interface for the aggregated shopping list
type IShoppingListService interface {
	Compute(ctx context.Context, caller *types.Caller) ([]types.ShoppingListItem, error)
	Render(ctx context.Context, caller *types.Caller) (filename string, body string, err error)
}

// ISubscriptionService defines the interface for follow operations
type ISubscriptionService interface {
	Subscribe(ctx context.Context, caller *types.Caller, authorID uuid.UUID, recipesLimit *int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, caller *types.Caller, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, caller *types.Caller, recipesLimit *int, page types.PageRequest) (*types.Page[types.SubscriptionResponse], error)
}

// ITagService defines the interface for tag lookups
type ITagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
}

// IIngredientService defines the interface for ingredient lookups
type IIngredientService interface {
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IRecipeListService   = (*RecipeListService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ ITagService          = (*TagService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
)
