package service

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Action is what a caller attempts to do with a recipe
type Action int

const (
	ActionRead Action = iota
	ActionUpdate
	ActionDelete
)

// IsAuthorOrReadOnly lets anyone read a recipe and only its author change it.
// Staff users may also delete.
func IsAuthorOrReadOnly(caller *types.Caller, recipe *models.Recipe, action Action) error {
	if action == ActionRead {
		return nil
	}
	if caller == nil {
		return Forbidden(msgForbidden)
	}
	if caller.ID == recipe.AuthorID {
		return nil
	}
	if action == ActionDelete && caller.IsStaff {
		return nil
	}
	return Forbidden(msgForbidden)
}
