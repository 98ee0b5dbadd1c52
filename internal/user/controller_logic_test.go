package user

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hadmin/internal/model"
	pkgAuth "github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestController(t *testing.T) (*Controller, Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Role{}, &model.Dept{}))

	repo := NewRepositoryWithDB(db)
	return NewController(repo), repo
}

func TestCreateHashesPassword(t *testing.T) {
	ctrl, repo := newTestController(t)
	ctx := context.Background()

	u, err := ctrl.create(ctx, &CreateRequest{
		Username: "alice",
		Password: "plaintext",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext", u.Password)
	assert.True(t, pkgAuth.CheckPassword("plaintext", u.Password))

	stored, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int8(1), stored.Status)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	_, err := ctrl.create(ctx, &CreateRequest{Username: "a", Password: "p1", Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = ctrl.create(ctx, &CreateRequest{Username: "b", Password: "p2", Email: "dup@example.com"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDuplicate, errors.GetCode(err))
}

func TestCreateRequiresFields(t *testing.T) {
	ctrl, _ := newTestController(t)

	_, err := ctrl.create(context.Background(), &CreateRequest{Username: "a"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))
}

func TestUpdateOnlyTouchesProvidedFields(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	u, err := ctrl.create(ctx, &CreateRequest{
		Username: "alice",
		Password: "secret",
		Email:    "alice@example.com",
		Phone:    "12345678901",
	})
	require.NoError(t, err)

	newPhone := "10987654321"
	updated, err := ctrl.update(ctx, u.ID, &UpdateRequest{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdateUnknownUser(t *testing.T) {
	ctrl, _ := newTestController(t)

	name := "ghost"
	_, err := ctrl.update(context.Background(), 404, &UpdateRequest{Username: &name})
	assert.True(t, errors.IsNotFound(err))
}
