package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestIsAuthorOrReadOnly(t *testing.T) {
	author := &types.Caller{ID: uuid.New()}
	stranger := &types.Caller{ID: uuid.New()}
	staff := &types.Caller{ID: uuid.New(), IsStaff: true}
	recipe := &models.Recipe{AuthorID: author.ID}

	tests := []struct {
		name    string
		caller  *types.Caller
		action  Action
		allowed bool
	}{
		{"anonymous read", nil, ActionRead, true},
		{"stranger read", stranger, ActionRead, true},
		{"anonymous update", nil, ActionUpdate, false},
		{"anonymous delete", nil, ActionDelete, false},
		{"author update", author, ActionUpdate, true},
		{"author delete", author, ActionDelete, true},
		{"stranger update", stranger, ActionUpdate, false},
		{"stranger delete", stranger, ActionDelete, false},
		{"staff update", staff, ActionUpdate, false},
		{"staff delete", staff, ActionDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsAuthorOrReadOnly(tt.caller, recipe, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsKind(err, KindForbidden), "got %v", err)
		})
	}
}
