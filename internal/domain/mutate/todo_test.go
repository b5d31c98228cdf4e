package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/domain/entities"
)

func TestCreateTodoFallsBackToFirstCategory(t *testing.T) {
	doc := seedDoc()
	firstCategoryID := doc.PersonalTodos.Categories[0].ID

	td := CreateTodo(doc, "water plants", "no-such-category", "")
	assert.Equal(t, firstCategoryID, td.CategoryID)
	assert.Equal(t, entities.TodoStatusBacklog, td.Status)
	assert.Greater(t, td.CreatedAt, int64(0))
}

func TestTodoActivationMaintainsActiveOrder(t *testing.T) {
	doc := seedDoc()
	a := CreateTodo(doc, "a", "", "")
	aID := a.ID
	bID := CreateTodo(doc, "b", "", "").ID
	cID := CreateTodo(doc, "c", "", "").ID

	// Activation prepends.
	require.NoError(t, MoveTodoToActive(doc, aID))
	require.NoError(t, MoveTodoToActive(doc, bID))
	require.NoError(t, MoveTodoToActive(doc, cID))
	assert.Equal(t, []string{cID, bID, aID}, doc.PersonalTodos.ActiveOrder)

	// Re-activating an active todo moves it to the front without
	// duplicating it.
	require.NoError(t, MoveTodoToActive(doc, aID))
	assert.Equal(t, []string{aID, cID, bID}, doc.PersonalTodos.ActiveOrder)

	// Demotion prunes the id.
	require.NoError(t, MoveTodoToBacklog(doc, cID))
	assert.Equal(t, []string{aID, bID}, doc.PersonalTodos.ActiveOrder)

	// Deletion prunes the id too.
	require.NoError(t, DeleteTodo(doc, aID))
	assert.Equal(t, []string{bID}, doc.PersonalTodos.ActiveOrder)
	assert.Nil(t, doc.PersonalTodos.FindTodo(aID))
}

func TestReorderActiveTodos(t *testing.T) {
	doc := seedDoc()
	aID := CreateTodo(doc, "a", "", "").ID
	bID := CreateTodo(doc, "b", "", "").ID
	cID := CreateTodo(doc, "c", "", "").ID
	for _, id := range []string{aID, bID, cID} {
		require.NoError(t, MoveTodoToActive(doc, id))
	}
	// Order is now c, b, a.

	require.NoError(t, ReorderActiveTodos(doc, cID, 2))
	assert.Equal(t, []string{bID, aID, cID}, doc.PersonalTodos.ActiveOrder)

	// Positions beyond the end clamp to the end; negatives to the front.
	require.NoError(t, ReorderActiveTodos(doc, bID, 99))
	assert.Equal(t, []string{aID, cID, bID}, doc.PersonalTodos.ActiveOrder)
	require.NoError(t, ReorderActiveTodos(doc, bID, -1))
	assert.Equal(t, []string{bID, aID, cID}, doc.PersonalTodos.ActiveOrder)

	// Backlog todos cannot be reordered.
	dID := CreateTodo(doc, "d", "", "").ID
	assert.ErrorIs(t, ReorderActiveTodos(doc, dID, 0), entities.ErrTodoNotFound)
}

func TestDeleteTodoCategoryCascades(t *testing.T) {
	doc := seedDoc()
	errands := CreateTodoCategory(doc, "Errands", "#00ff00")
	errandsID := errands.ID

	keepID := CreateTodo(doc, "keep", "", "").ID
	goneID := CreateTodo(doc, "gone", errandsID, "").ID
	require.NoError(t, MoveTodoToActive(doc, goneID))
	require.NoError(t, MoveTodoToActive(doc, keepID))

	require.NoError(t, DeleteTodoCategory(doc, errandsID))

	assert.Nil(t, doc.PersonalTodos.FindCategory(errandsID))
	assert.Nil(t, doc.PersonalTodos.FindTodo(goneID))
	assert.Equal(t, []string{keepID}, doc.PersonalTodos.ActiveOrder)

	assert.ErrorIs(t, DeleteTodoCategory(doc, errandsID), entities.ErrTodoCategoryNotFound)
}

func TestUpdateTodoIgnoresUnknownCategory(t *testing.T) {
	doc := seedDoc()
	td := CreateTodo(doc, "a", "", "")
	tdID := td.ID
	originalCategory := td.CategoryID

	got, err := UpdateTodo(doc, tdID, TodoUpdate{CategoryID: strPtr("ghost"), Done: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, originalCategory, got.CategoryID)
	assert.True(t, got.Done)
}
