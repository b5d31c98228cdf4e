package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/domain/entities"
)

func TestCategoryLifecycle(t *testing.T) {
	doc := seedDoc()

	c := CreateCategory(doc, "Work", "#ff0000")
	assert.NotEmpty(t, c.ID)
	categoryID := c.ID

	got, err := UpdateCategory(doc, categoryID, CategoryUpdate{Name: strPtr("Client Work")})
	require.NoError(t, err)
	assert.Equal(t, "Client Work", got.Name)
	assert.Equal(t, "#ff0000", got.Color)

	_, err = UpdateCategory(doc, "missing", CategoryUpdate{})
	assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
}

func TestDeleteCategoryGuardsDefault(t *testing.T) {
	doc := seedDoc()
	assert.ErrorIs(t, DeleteCategory(doc, entities.DefaultCategoryID), entities.ErrDefaultCategory)
}

func TestDeleteCategoryCascadesToProjects(t *testing.T) {
	doc := seedDoc()
	work := CreateCategory(doc, "Work", "")
	home := CreateCategory(doc, "Home", "")
	workID, homeID := work.ID, home.ID

	both := CreateProject(doc, "Both", "", "", nil, []string{workID, homeID}, "")
	only := CreateProject(doc, "Only work", "", "", nil, []string{workID}, "")
	bothID, onlyID := both.ID, only.ID

	require.NoError(t, DeleteCategory(doc, workID))

	assert.Nil(t, doc.FindCategory(workID))

	// The surviving category remains; the orphaned project falls back
	// to the default category.
	assert.Equal(t, []string{homeID}, doc.FindProject(bothID).CategoryIDs)
	assert.Equal(t, homeID, doc.FindProject(bothID).CategoryID)
	assert.Equal(t, []string{entities.DefaultCategoryID}, doc.FindProject(onlyID).CategoryIDs)
	assert.Equal(t, entities.DefaultCategoryID, doc.FindProject(onlyID).CategoryID)

	assert.ErrorIs(t, DeleteCategory(doc, workID), entities.ErrCategoryNotFound)
}
