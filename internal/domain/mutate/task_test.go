package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/domain/entities"
)

func TestCreateTaskComputesStoryPoints(t *testing.T) {
	doc := seedDoc()
	p := CreateProject(doc, "Alpha", "", "", nil, nil, "")

	task, err := CreateTask(doc, TaskDraft{
		ProjectID: p.ID,
		Title:     "Build feature",
		Subtasks: []SubtaskDraft{
			{Title: "design", StoryPoints: 3},
			{Title: "implement", StoryPoints: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entities.TaskStatusTodo, task.Status)
	assert.Equal(t, entities.TaskPriorityMedium, task.Priority)
	assert.Equal(t, 5, task.StoryPoints)
	require.Len(t, task.Subtasks, 2)
	assert.NotEmpty(t, task.Subtasks[0].ID)

	_, err = CreateTask(doc, TaskDraft{ProjectID: "missing"})
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestUpdateTaskReplacesSubtasks(t *testing.T) {
	doc := seedDoc()
	p := CreateProject(doc, "Alpha", "", "", nil, nil, "")
	task, err := CreateTask(doc, TaskDraft{
		ProjectID: p.ID,
		Title:     "Build",
		Subtasks:  []SubtaskDraft{{Title: "old", StoryPoints: 3}},
	})
	require.NoError(t, err)

	newSubtasks := []SubtaskDraft{
		{Title: "a", StoryPoints: 4},
		{Title: "b", StoryPoints: 5, Completed: true},
	}
	got, err := UpdateTask(doc, task.ID, TaskUpdate{Subtasks: &newSubtasks})
	require.NoError(t, err)

	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, 9, got.StoryPoints)
	assert.Equal(t, 5, got.CompletedPoints())

	// Reassignment to an unknown project is ignored.
	got, err = UpdateTask(doc, task.ID, TaskUpdate{ProjectID: strPtr("missing")})
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)
}

func TestSubtaskMutations(t *testing.T) {
	doc := seedDoc()
	p := CreateProject(doc, "Alpha", "", "", nil, nil, "")
	task, err := CreateTask(doc, TaskDraft{
		ProjectID: p.ID,
		Subtasks:  []SubtaskDraft{{Title: "first", StoryPoints: 3}},
	})
	require.NoError(t, err)
	taskID := task.ID

	addedID, err := AddSubtask(doc, taskID, "second", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, addedID)
	assert.Equal(t, 5, doc.FindTask(taskID).StoryPoints)

	gotID, err := UpdateSubtask(doc, taskID, addedID, SubtaskUpdate{StoryPoints: intPtr(4), Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, addedID, gotID)
	assert.Equal(t, 7, doc.FindTask(taskID).StoryPoints)

	gotID, err = RemoveSubtask(doc, taskID, addedID)
	require.NoError(t, err)
	assert.Equal(t, addedID, gotID)
	assert.Equal(t, 3, doc.FindTask(taskID).StoryPoints)

	_, err = RemoveSubtask(doc, taskID, addedID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestQuickTaskLifecycle(t *testing.T) {
	doc := seedDoc()

	q := CreateQuickTask(doc, QuickTaskDraft{Description: "check backups", Points: 17})
	assert.Equal(t, entities.MaxPoints, q.Points)
	assert.Equal(t, entities.TaskPriorityLow, q.Priority)
	assert.Equal(t, entities.TaskStatusTodo, q.Status)
	assert.False(t, q.IsDone)
	assert.Equal(t, "check backups", q.Title, "title derived from description")

	quickID := q.ID
	doneStatus := entities.TaskStatusDone
	got, err := UpdateQuickTask(doc, quickID, QuickTaskUpdate{Status: &doneStatus})
	require.NoError(t, err)
	assert.True(t, got.IsDone, "Done status implies the done flag")

	require.NoError(t, DeleteQuickTask(doc, quickID))
	assert.ErrorIs(t, DeleteQuickTask(doc, quickID), entities.ErrQuickTaskNotFound)
}

func TestLogMutations(t *testing.T) {
	doc := seedDoc()
	p := CreateProject(doc, "Alpha", "", "", nil, nil, "")
	task, err := CreateTask(doc, TaskDraft{ProjectID: p.ID})
	require.NoError(t, err)
	taskID := task.ID

	// Blank content is rejected.
	_, ok := AddLog(doc, taskID, "   ")
	assert.False(t, ok)

	log, ok := AddLog(doc, taskID, "made progress")
	require.True(t, ok)
	assert.NotEmpty(t, log.ID)
	assert.Greater(t, log.CreatedAt, int64(0))
	logID := log.ID

	assert.True(t, UpdateLog(doc, taskID, logID, "made more progress"))
	assert.Equal(t, "made more progress", doc.FindTask(taskID).Logs[0].Content)

	// Unknown owners and ids are tolerated no-ops.
	assert.False(t, UpdateLog(doc, "ghost", logID, "x"))
	assert.False(t, DeleteLog(doc, taskID, "ghost"))

	assert.True(t, DeleteLog(doc, taskID, logID))
	assert.Empty(t, doc.FindTask(taskID).Logs)
}

func TestLogOwnerResolution(t *testing.T) {
	doc := seedDoc()
	q := CreateQuickTask(doc, QuickTaskDraft{Title: "quick"})
	td := CreateTodo(doc, "todo", "", "")

	_, ok := AddLog(doc, q.ID, "on quick task")
	assert.True(t, ok)
	_, ok = AddLog(doc, td.ID, "on todo")
	assert.True(t, ok)

	assert.Len(t, doc.FindQuickTask(q.ID).Logs, 1)
	assert.Len(t, doc.PersonalTodos.FindTodo(td.ID).Logs, 1)
}
