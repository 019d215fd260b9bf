package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Access is who may call a route
type Access int

const (
	// Public routes identify the caller when a token is sent
	Public Access = iota
	// Authenticated routes answer 401 without a valid token
	Authenticated
)

// Route is one row of the route table
type Route struct {
	Method      string
	Path        string
	Access      Access
	RateLimited bool
	Handler     gin.HandlerFunc
}

// Services are the dependencies of the handlers
type Services struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Recipes       service.IRecipeService
	Lists         service.IRecipeListService
	Shopping      service.IShoppingListService
	Subscriptions service.ISubscriptionService
	Tags          service.ITagService
	Ingredients   service.IIngredientService
}

// Routes returns the route table, paths relative to /api
func Routes(s Services, pageSize int) []Route {
	recipes := NewRecipeHandler(s.Recipes, s.Lists, s.Shopping, pageSize)
	users := NewUserHandler(s.Users, s.Subscriptions, pageSize)
	reference := NewReferenceHandler(s.Tags, s.Ingredients)
	auth := NewAuthHandler(s.Auth)

	return []Route{
		{http.MethodGet, "/recipes", Public, false, recipes.ListRecipes},
		{http.MethodPost, "/recipes", Authenticated, true, recipes.CreateRecipe},
		{http.MethodGet, "/recipes/download_shopping_cart", Authenticated, false, recipes.DownloadShoppingCart},
		{http.MethodGet, "/recipes/:id", Public, false, recipes.GetRecipe},
		{http.MethodPatch, "/recipes/:id", Authenticated, false, recipes.UpdateRecipe},
		{http.MethodDelete, "/recipes/:id", Authenticated, false, recipes.DeleteRecipe},
		{http.MethodPost, "/recipes/:id/favorite", Authenticated, false, recipes.AddToList(service.FavoritesList)},
		{http.MethodDelete, "/recipes/:id/favorite", Authenticated, false, recipes.RemoveFromList(service.FavoritesList)},
		{http.MethodPost, "/recipes/:id/shopping_cart", Authenticated, false, recipes.AddToList(service.ShoppingCartList)},
		{http.MethodDelete, "/recipes/:id/shopping_cart", Authenticated, false, recipes.RemoveFromList(service.ShoppingCartList)},

		{http.MethodGet, "/tags", Public, false, reference.ListTags},
		{http.MethodGet, "/tags/:id", Public, false, reference.GetTag},
		{http.MethodGet, "/ingredients", Public, false, reference.ListIngredients},
		{http.MethodGet, "/ingredients/:id", Public, false, reference.GetIngredient},

		{http.MethodGet, "/users", Public, false, users.ListUsers},
		{http.MethodPost, "/users", Public, false, users.CreateUser},
		{http.MethodGet, "/users/me", Authenticated, false, users.Me},
		{http.MethodPost, "/users/set_password", Authenticated, false, users.SetPassword},
		{http.MethodGet, "/users/subscriptions", Authenticated, false, users.ListSubscriptions},
		{http.MethodGet, "/users/:id", Public, false, users.GetUser},
		{http.MethodPost, "/users/:id/subscribe", Authenticated, false, users.Subscribe},
		{http.MethodDelete, "/users/:id/subscribe", Authenticated, false, users.Unsubscribe},

		{http.MethodPost, "/auth/token/login", Public, false, auth.Login},
		{http.MethodPost, "/auth/token/logout", Authenticated, false, auth.Logout},
	}
}

// Register mounts routes on group. limiter guards the rate limited rows and may be nil.
func Register(group gin.IRoutes, validator middleware.TokenValidator, routes []Route, limiter *middleware.RateLimiter) {
	required := middleware.AuthMiddleware(validator)
	optional := middleware.OptionalAuth(validator)

	for _, r := range routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		if r.Access == Authenticated {
			chain = append(chain, required)
		} else {
			chain = append(chain, optional)
		}
		if r.RateLimited && limiter != nil {
			chain = append(chain, limiter.RateLimitMiddleware())
		}
		chain = append(chain, r.Handler)
		group.Handle(r.Method, r.Path, chain...)
	}
}
