package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/domain/entities"
	"github.com/soloplan/core/internal/domain/normalize"
)

func seedDoc() *entities.Document {
	return normalize.Seed()
}

func strPtr(s string) *string                           { return &s }
func intPtr(n int) *int                                 { return &n }
func boolPtr(b bool) *bool                              { return &b }
func statusPtr(s entities.ProjectStatus) *entities.ProjectStatus { return &s }

func TestCreateProjectDefaults(t *testing.T) {
	doc := seedDoc()

	p := CreateProject(doc, "Alpha", "first project", "", nil, nil, "")

	require.NotNil(t, p)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, entities.ProjectStatusBacklog, p.Status)
	assert.Equal(t, entities.DefaultProjectPriority, p.Priority)
	assert.Equal(t, []string{entities.DefaultCategoryID}, p.CategoryIDs)
	assert.Equal(t, entities.DefaultCategoryID, p.CategoryID)

	// Every new project starts with an auto-created main note.
	require.Len(t, p.Notes, 1)
	assert.Equal(t, "Main", p.Notes[0].Title)
	assert.True(t, p.Notes[0].IsMain)
}

func TestUpdateProjectCategoryDerivation(t *testing.T) {
	doc := seedDoc()
	p := CreateProject(doc, "Alpha", "", entities.ProjectStatusInProgress, intPtr(2), []string{"cat-a"}, "")

	// Supplying the legacy single field rebuilds the list from it.
	got, err := UpdateProject(doc, p.ID, ProjectUpdate{CategoryID: strPtr("cat-b")})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-b"}, got.CategoryIDs)
	assert.Equal(t, "cat-b", got.CategoryID)

	// The canonical list wins when both are supplied.
	got, err = UpdateProject(doc, p.ID, ProjectUpdate{
		CategoryIDs: &[]string{"cat-x", "cat-y"},
		CategoryID:  strPtr("ignored"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-x", "cat-y"}, got.CategoryIDs)
	assert.Equal(t, "cat-x", got.CategoryID)

	// Clearing the list falls back to the default category.
	got, err = UpdateProject(doc, p.ID, ProjectUpdate{CategoryIDs: &[]string{}})
	require.NoError(t, err)
	assert.Equal(t, []string{entities.DefaultCategoryID}, got.CategoryIDs)

	// Invalid status values are ignored, valid ones applied.
	got, err = UpdateProject(doc, p.ID, ProjectUpdate{Status: statusPtr("Bogus")})
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusInProgress, got.Status)

	got, err = UpdateProject(doc, p.ID, ProjectUpdate{Status: statusPtr(entities.ProjectStatusDone)})
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusDone, got.Status)

	_, err = UpdateProject(doc, "missing", ProjectUpdate{})
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	doc := seedDoc()
	p1 := CreateProject(doc, "Alpha", "", "", nil, nil, "")
	p2 := CreateProject(doc, "Beta", "", "", nil, nil, "")

	_, err := CreateTask(doc, TaskDraft{ProjectID: p1.ID, Title: "in alpha"})
	require.NoError(t, err)
	keep, err := CreateTask(doc, TaskDraft{ProjectID: p2.ID, Title: "in beta"})
	require.NoError(t, err)

	require.NoError(t, DeleteProject(doc, p1.ID))

	assert.Nil(t, doc.FindProject(p1.ID))
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, keep.ID, doc.Tasks[0].ID)

	assert.ErrorIs(t, DeleteProject(doc, p1.ID), entities.ErrProjectNotFound)
}

func TestNoteLifecycle(t *testing.T) {
	doc := seedDoc()
	p := CreateProject(doc, "Alpha", "", "", nil, nil, "")
	projectID := p.ID

	child, err := AddNote(doc, projectID, "Child", "body", p.Notes[0].ID)
	require.NoError(t, err)
	assert.False(t, child.IsMain, "only the first note of a project is main")

	// Flagging a note main clears the flag elsewhere.
	childID := child.ID
	_, err = UpdateNote(doc, projectID, childID, NoteUpdate{IsMain: boolPtr(true)})
	require.NoError(t, err)
	p = doc.FindProject(projectID)
	assert.False(t, p.Notes[0].IsMain)
	assert.True(t, p.Notes[1].IsMain)

	// Deleting a note takes its descendants with it.
	grandchild, err := AddNote(doc, projectID, "Grandchild", "", childID)
	require.NoError(t, err)
	grandchildID := grandchild.ID
	require.NoError(t, DeleteNote(doc, projectID, childID))

	p = doc.FindProject(projectID)
	require.Len(t, p.Notes, 1)
	assert.NotEqual(t, grandchildID, p.Notes[0].ID)

	assert.ErrorIs(t, DeleteNote(doc, projectID, "missing"), entities.ErrNoteNotFound)
	_, err = AddNote(doc, "missing", "x", "", "")
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}
