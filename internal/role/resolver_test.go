package role

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hadmin/internal/menu"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestResolver(t *testing.T) (*Resolver, Repository, MenuRepository, menu.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Role{}, &model.RoleMenu{}, &model.Menu{}))

	roles := NewRepositoryWithDB(db)
	roleMenus := NewMenuRepositoryWithDB(db)
	menus := menu.NewRepositoryWithDB(db)
	return NewResolver(roles, roleMenus, menus), roles, roleMenus, menus
}

func seedRole(t *testing.T, roles Repository, name, code string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name, Code: code, Status: model.RoleStatusEnabled}
	require.NoError(t, roles.Create(context.Background(), role))
	return role
}

func TestResolveRoutesUnknownRole(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)

	_, err := resolver.ResolveRoutes(context.Background(), 404)
	assert.True(t, errors.IsNotFound(err))
}

func TestResolveRoutesNoAssociationsYieldsEmptyList(t *testing.T) {
	resolver, roles, _, _ := newTestResolver(t)
	role := seedRole(t, roles, "观察员", "viewer")

	routes, err := resolver.ResolveRoutes(context.Background(), role.ID)
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}

func TestResolveRoutesExcludesHiddenMenus(t *testing.T) {
	resolver, roles, roleMenus, menus := newTestResolver(t)
	role := seedRole(t, roles, "管理员", "admin")

	ctx := context.Background()
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1000, Name: "Visible", Path: "/v"}))
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1001, Name: "Hidden", Path: "/h", Hidden: true}))
	require.NoError(t, roleMenus.Replace(ctx, role.ID, []int64{1000, 1001}))

	routes, err := resolver.ResolveRoutes(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Visible", routes[0].Name)
}

func TestResolveRoutesExcludesDisabledAssociations(t *testing.T) {
	resolver, roles, roleMenus, menus := newTestResolver(t)
	role := seedRole(t, roles, "编辑", "editor")

	ctx := context.Background()
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1000, Name: "Kept", Path: "/k"}))
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1001, Name: "Cut", Path: "/c"}))
	require.NoError(t, roleMenus.Create(ctx, &model.RoleMenu{RoleID: role.ID, MenuID: 1000, IsEnabled: true}))
	require.NoError(t, roleMenus.Create(ctx, &model.RoleMenu{RoleID: role.ID, MenuID: 1001, IsEnabled: false}))

	routes, err := resolver.ResolveRoutes(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Kept", routes[0].Name)
}

func TestResolveRoutesBuildsNestedTree(t *testing.T) {
	resolver, roles, roleMenus, menus := newTestResolver(t)
	role := seedRole(t, roles, "运营", "ops")

	ctx := context.Background()
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1000, Name: "System", Path: "/system", MenuOrder: 1}))
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1001, ParentID: 1000, Name: "Users", Path: "users", MenuOrder: 2}))
	require.NoError(t, menus.Create(ctx, &model.Menu{MenuID: 1002, ParentID: 1000, Name: "Roles", Path: "roles", MenuOrder: 1}))
	require.NoError(t, roleMenus.Replace(ctx, role.ID, []int64{1000, 1001, 1002}))

	routes, err := resolver.ResolveRoutes(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Children, 2)
	assert.Equal(t, "Roles", routes[0].Children[0].Name)
	assert.Equal(t, "Users", routes[0].Children[1].Name)
}

func TestReplaceIsIdempotentAndComplete(t *testing.T) {
	_, roles, roleMenus, _ := newTestResolver(t)
	role := seedRole(t, roles, "临时", "temp")
	ctx := context.Background()

	require.NoError(t, roleMenus.Replace(ctx, role.ID, []int64{1000, 1001}))
	require.NoError(t, roleMenus.Replace(ctx, role.ID, []int64{1002}))

	menuIDs, err := roleMenus.FindEnabledMenuIDs(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1002}, menuIDs)

	require.NoError(t, roleMenus.Replace(ctx, role.ID, nil))
	menuIDs, err = roleMenus.FindEnabledMenuIDs(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, menuIDs)
}
