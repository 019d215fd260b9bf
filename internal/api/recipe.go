package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeHandler serves recipes and the per-user recipe lists
type RecipeHandler struct {
	recipes  service.IRecipeService
	lists    service.IRecipeListService
	shopping service.IShoppingListService
	pageSize int
}

func NewRecipeHandler(recipes service.IRecipeService, lists service.IRecipeListService, shopping service.IShoppingListService, pageSize int) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		lists:    lists,
		shopping: shopping,
		pageSize: pageSize,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page := parsePage(c, h.pageSize)
	result, err := h.recipes.ListRecipes(c.Request.Context(), middleware.CallerFromContext(c), recipeFilter(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withLinks(c, result, page))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), middleware.CallerFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), middleware.CallerFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), middleware.CallerFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), middleware.CallerFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToList returns a handler putting the recipe into list
func (h *RecipeHandler) AddToList(list service.RecipeList) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		short, err := h.lists.Add(c.Request.Context(), middleware.CallerFromContext(c), list, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

// RemoveFromList returns a handler taking the recipe out of list
func (h *RecipeHandler) RemoveFromList(list service.RecipeList) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.lists.Remove(c.Request.Context(), middleware.CallerFromContext(c), list, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	name, body, err := h.shopping.Render(c.Request.Context(), middleware.CallerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// recipeFilter reads ?tags, ?author, ?is_favorited and ?is_in_shopping_cart.
// Unparseable author ids match nothing.
func recipeFilter(c *gin.Context) types.RecipeFilter {
	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	for _, raw := range c.QueryArray("author") {
		id, err := uuid.Parse(raw)
		if err != nil {
			id = uuid.Nil
		}
		filter.AuthorIDs = append(filter.AuthorIDs, id)
	}
	return filter
}

// queryFlag returns nil when key is absent or empty. Values other than true/1 read as false.
func queryFlag(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	v = err == nil && v
	return &v
}

// pathID parses the :id segment, answering 404 when it is not a uuid
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondNotFound(c)
		return uuid.Nil, false
	}
	return id, true
}
