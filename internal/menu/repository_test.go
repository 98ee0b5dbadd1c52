package menu

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hadmin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Menu{}))
	return NewRepositoryWithDB(db)
}

func seed(t *testing.T, repo Repository, menus ...model.Menu) {
	t.Helper()
	for i := range menus {
		require.NoError(t, repo.Create(context.Background(), &menus[i]))
	}
}

func TestNextMenuIDStartsAtFloor(t *testing.T) {
	repo := newTestRepo(t)

	next, err := repo.NextMenuID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), next)
}

func TestNextMenuIDIsMaxPlusOne(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Menu{MenuID: 1000, Name: "a", Path: "/a"},
		model.Menu{MenuID: 1005, Name: "b", Path: "/b"},
		model.Menu{MenuID: 1002, Name: "c", Path: "/c"},
	)

	next, err := repo.NextMenuID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1006), next)
}

func TestFindByMenuIDsFiltersHidden(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Menu{MenuID: 1000, Name: "a", Path: "/a"},
		model.Menu{MenuID: 1001, Name: "b", Path: "/b", Hidden: true},
		model.Menu{MenuID: 1002, Name: "c", Path: "/c"},
	)

	visible, err := repo.FindByMenuIDs(context.Background(), []int64{1000, 1001, 1002}, false)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, int64(1000), visible[0].MenuID)
	assert.Equal(t, int64(1002), visible[1].MenuID)

	all, err := repo.FindByMenuIDs(context.Background(), []int64{1000, 1001, 1002}, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFindByMenuIDsEmptyInput(t *testing.T) {
	repo := newTestRepo(t)

	menus, err := repo.FindByMenuIDs(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, menus)
}

func TestFindAllOrdered(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Menu{MenuID: 1002, Name: "c", Path: "/c", MenuOrder: 1},
		model.Menu{MenuID: 1000, Name: "a", Path: "/a", MenuOrder: 2},
		model.Menu{MenuID: 1001, Name: "b", Path: "/b", MenuOrder: 1},
	)

	menus, err := repo.FindAllOrdered(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, menus, 3)

	var ids []int64
	for _, m := range menus {
		ids = append(ids, m.MenuID)
	}
	assert.Equal(t, []int64{1001, 1002, 1000}, ids)
}
