package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newUserRequest(username string) *types.CreateUserRequest {
	return &types.CreateUserRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "long-enough-pass",
	}
}

func TestCreateUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db).WithHashCost(bcrypt.MinCost)

	got, err := svc.CreateUser(context.Background(), newUserRequest("ivan"))
	require.NoError(t, err)
	assert.Equal(t, "ivan", got.Username)
	assert.Equal(t, "ivan@example.com", got.Email)
	assert.Nil(t, got.IsSubscribed, "registration response omits is_subscribed")

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", got.ID).Error)
	assert.NotEqual(t, "long-enough-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("long-enough-pass")))
}

func TestCreateUserRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *types.CreateUserRequest)
		field  string
	}{
		{name: "reserved username", mutate: func(r *types.CreateUserRequest) { r.Username = "me" }, field: "username"},
		{name: "bad characters", mutate: func(r *types.CreateUserRequest) { r.Username = "bad name!" }, field: "username"},
		{name: "bad email", mutate: func(r *types.CreateUserRequest) { r.Email = "nope" }, field: "email"},
		{name: "short password", mutate: func(r *types.CreateUserRequest) { r.Password = "short" }, field: "password"},
		{name: "missing first name", mutate: func(r *types.CreateUserRequest) { r.FirstName = "" }, field: "first_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testhelpers.SetupTestDB(t)
			svc := service.NewUserService(db).WithHashCost(bcrypt.MinCost)

			req := newUserRequest("ivan")
			tt.mutate(req)
			_, err := svc.CreateUser(context.Background(), req)
			svcErr := requireKind(t, err, service.KindValidation)
			assert.Contains(t, svcErr.Fields, tt.field)
		})
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, newUserRequest("ivan"))
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, newUserRequest("ivan"))
	svcErr := requireKind(t, err, service.KindValidation)
	assert.Contains(t, svcErr.Fields, "email")
	assert.Contains(t, svcErr.Fields, "username")
}

func TestGetAndListUsers(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	subs := service.NewSubscriptionService(db)
	reader := testhelpers.CreateUser(t, db, "reader")
	author := testhelpers.CreateUser(t, db, "author")
	ctx := context.Background()

	_, err := subs.Subscribe(ctx, callerFor(reader), author.ID, nil)
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, callerFor(reader), author.ID)
	require.NoError(t, err)
	require.NotNil(t, got.IsSubscribed)
	assert.True(t, *got.IsSubscribed)

	anon, err := svc.GetUser(ctx, nil, author.ID)
	require.NoError(t, err)
	require.NotNil(t, anon.IsSubscribed)
	assert.False(t, *anon.IsSubscribed)

	_, err = svc.GetUser(ctx, nil, uuid.New())
	requireKind(t, err, service.KindNotFound)

	page, err := svc.ListUsers(ctx, callerFor(reader), types.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "author", page.Results[0].Username)
	assert.True(t, *page.Results[0].IsSubscribed)
	assert.False(t, *page.Results[1].IsSubscribed)

	me, err := svc.Me(ctx, callerFor(reader))
	require.NoError(t, err)
	assert.Equal(t, reader.ID, me.ID)

	_, err = svc.Me(ctx, nil)
	requireKind(t, err, service.KindUnauthorized)
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db).WithHashCost(bcrypt.MinCost)
	user := testhelpers.CreateUser(t, db, "ivan")
	ctx := context.Background()

	err := svc.SetPassword(ctx, callerFor(user), &types.SetPasswordRequest{
		NewPassword:     "brand-new-pass",
		CurrentPassword: "wrong",
	})
	svcErr := requireKind(t, err, service.KindValidation)
	assert.Contains(t, svcErr.Fields, "current_password")

	require.NoError(t, svc.SetPassword(ctx, callerFor(user), &types.SetPasswordRequest{
		NewPassword:     "brand-new-pass",
		CurrentPassword: testhelpers.TestPassword,
	}))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")))
}
