package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,max=10,username,not_reserved"`
	Time     int    `json:"cooking_time" validate:"gte=1,lte=100"`
	Image    string `json:"image" validate:"required,encoded_image"`
}

func TestValidateStructOK(t *testing.T) {
	errs := ValidateStruct(&sample{Username: "chef.b+1", Time: 5, Image: "data:image/png;base64,iVBORw0KGgo="})
	assert.Empty(t, errs)
}

func TestValidateStructCollectsAllFields(t *testing.T) {
	errs := ValidateStruct(&sample{Username: "bad name!", Time: 0, Image: "not-an-image"})
	require.Len(t, errs, 3)

	byField := map[string]FieldError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, KindInvalid, byField["username"].Kind)
	assert.Equal(t, KindOutOfRange, byField["cooking_time"].Kind)
	assert.Equal(t, KindInvalid, byField["image"].Kind)
}

func TestReservedUsername(t *testing.T) {
	errs := ValidateStruct(&sample{Username: "me", Time: 1, Image: "data:image/png;base64,iVBORw0KGgo="})
	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Field)
	assert.Contains(t, errs[0].Message, "me")
}

func TestRequired(t *testing.T) {
	errs := ValidateStruct(&sample{Time: 1})
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, KindRequired, e.Kind)
	}
}

func TestIsEncodedImage(t *testing.T) {
	assert.True(t, IsEncodedImage("data:image/jpeg;base64,/9j/4AAQ"))
	assert.False(t, IsEncodedImage("data:image/png;base64,@@@"))
	assert.False(t, IsEncodedImage("http://example.com/a.png"))
	assert.False(t, IsEncodedImage(""))
}
