package types

import (
	"github.com/google/uuid"
)

// IngredientAmount is one line of a recipe write payload
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeWriteRequest is the body of recipe create and update calls.
// Pointer fields distinguish omitted values from zero values.
type RecipeWriteRequest struct {
	Tags        *[]uuid.UUID        `json:"tags"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
	Name        *string             `json:"name"`
	Text        *string             `json:"text"`
	CookingTime *int                `json:"cooking_time"`
	Image       *string             `json:"image"`
}

// CreateUserRequest is the body of user registration
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username,not_reserved"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RecipeFilter narrows a recipe listing. A nil flag means the parameter was not sent.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorIDs        []uuid.UUID
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// PageRequest selects one page of a listing; Page is 1-based
type PageRequest struct {
	Page  int
	Limit int
}

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Normalize clamps Page and Limit into their valid ranges
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset returns the number of rows preceding the page
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
