package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// NewServices wires every service to db
func NewServices(db *gorm.DB, cfg *config.Config) Services {
	return Services{
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Users:         service.NewUserService(db),
		Recipes:       service.NewRecipeService(db),
		Lists:         service.NewRecipeListService(db),
		Shopping:      service.NewShoppingListService(db),
		Subscriptions: service.NewSubscriptionService(db),
		Tags:          service.NewTagService(db),
		Ingredients:   service.NewIngredientService(db),
	}
}

// SetupAPI mounts the /api routes. redisClient may be nil, which disables rate limiting.
func SetupAPI(router *gin.Engine, svc Services, cfg *config.Config, redisClient *redis.Client) {
	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit, cfg.RecipeCreateWindow)
	}
	Register(router.Group("/api"), svc.Auth, Routes(svc, cfg.PageSize), limiter)
}
