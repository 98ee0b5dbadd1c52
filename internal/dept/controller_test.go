package dept

import (
	"testing"

	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(id, parentID int64, sort int, name string) model.Dept {
	dept := model.Dept{ParentID: parentID, Name: name, Sort: sort}
	dept.Model = dal.Model{ID: id}
	return dept
}

func TestBuildTreeNestsAndSorts(t *testing.T) {
	depts := []model.Dept{
		d(1, 0, 1, "总公司"),
		d(2, 1, 2, "市场部"),
		d(3, 1, 1, "技术部"),
		d(4, 3, 1, "后端组"),
	}

	tree := buildTree(depts)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "技术部", tree[0].Children[0].Name)
	assert.Equal(t, "市场部", tree[0].Children[1].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "后端组", tree[0].Children[0].Children[0].Name)
}

func TestBuildTreePromotesDetachedNodes(t *testing.T) {
	depts := []model.Dept{
		d(1, 0, 1, "总公司"),
		d(2, 99, 1, "游离部门"),
	}

	tree := buildTree(depts)
	require.Len(t, tree, 2)
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := buildTree(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}
