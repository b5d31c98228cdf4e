package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/adapters/blob"
	"github.com/soloplan/core/internal/adapters/repository"
	"github.com/soloplan/core/internal/application/persist"
	"github.com/soloplan/core/internal/domain/entities"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

func newDocService(t *testing.T) *DocumentService {
	t.Helper()

	nop := logger.NewNop()
	store := blob.NewFileStore(filepath.Join(t.TempDir(), "doc.json"))
	repo := repository.NewDocumentRepository(store, nop)
	persister := persist.New(5*time.Millisecond, time.Second, repo.Save, nil, nop, nil)
	t.Cleanup(func() { persister.Close(context.Background()) })

	docs := NewDocumentService(repo, persister, nop)
	require.NoError(t, docs.Init(context.Background()))
	return docs
}

func TestProjectReportsFoldQuickTasks(t *testing.T) {
	docs := newDocService(t)
	reports := NewReportService(docs, logger.NewNop())

	p := docs.CreateProject(ports.CreateProjectRequest{Name: "Alpha"})

	done := entities.TaskStatusDone
	_, err := docs.CreateTask(ports.CreateTaskRequest{
		ProjectID: p.ID,
		Title:     "Build",
		Subtasks: []ports.SubtaskInput{
			{Title: "a", StoryPoints: 3, Completed: true},
			{Title: "b", StoryPoints: 2},
		},
	})
	require.NoError(t, err)
	task2, err := docs.CreateTask(ports.CreateTaskRequest{ProjectID: p.ID, Title: "Ship"})
	require.NoError(t, err)
	_, err = docs.UpdateTask(task2.ID, ports.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	docs.CreateQuickTask(ports.CreateQuickTaskRequest{
		ProjectID: p.ID,
		Title:     "quick one",
		Points:    2,
		Status:    entities.TaskStatusDone,
	})
	// A quick task for no project stays out of the report.
	docs.CreateQuickTask(ports.CreateQuickTaskRequest{Title: "floating"})

	rows := reports.ProjectReports()
	require.Len(t, rows, 1)
	r := rows[0]

	assert.Equal(t, "Alpha", r.ProjectName)
	assert.Equal(t, 1, r.QuickTasks)
	assert.Equal(t, 1, r.TasksByStatus[entities.TaskStatusTodo])
	assert.Equal(t, 2, r.TasksByStatus[entities.TaskStatusDone], "done task plus done quick task")
	assert.Equal(t, 7, r.TotalPoints, "5 subtask points plus 2 quick task points")
	assert.Equal(t, 5, r.CompletedPoints, "completed subtask plus done quick task")
}

func TestRenderCSVAndMarkdown(t *testing.T) {
	docs := newDocService(t)
	reports := NewReportService(docs, logger.NewNop())
	docs.CreateProject(ports.CreateProjectRequest{Name: "Alpha"})

	rows := reports.ProjectReports()

	csvData, err := reports.RenderCSV(rows)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "project,status,todo,in_progress,done,quick_tasks,total_points,completed_points,log_entries", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Alpha,Backlog,"))

	md := string(reports.RenderMarkdown(rows))
	assert.Contains(t, md, "| Project |")
	assert.Contains(t, md, "| Alpha |")
}

func TestDocumentSnapshotsAreIsolated(t *testing.T) {
	docs := newDocService(t)
	docs.CreateProject(ports.CreateProjectRequest{Name: "Alpha"})

	snapshot := docs.Document()
	snapshot.Projects[0].Name = "tampered"

	assert.Equal(t, "Alpha", docs.Document().Projects[0].Name)
}

func TestApplyPatchSupersedesPendingSnapshot(t *testing.T) {
	nop := logger.NewNop()
	store := blob.NewFileStore(filepath.Join(t.TempDir(), "doc.json"))
	repo := repository.NewDocumentRepository(store, nop)
	persister := persist.New(100*time.Millisecond, time.Second, repo.Save, nil, nop, nil)
	t.Cleanup(func() { persister.Close(context.Background()) })

	docs := NewDocumentService(repo, persister, nop)
	require.NoError(t, docs.Init(context.Background()))

	// The mutation schedules a snapshot that has not fired yet when
	// the synchronous patch lands.
	p := docs.CreateProject(ports.CreateProjectRequest{Name: "Alpha"})
	content := "from-post"
	_, err := docs.ApplyPatch(context.Background(), ports.DocumentPatch{Scratchpad: &content})
	require.NoError(t, err)

	// Once the debounced write fires it must carry the patched state,
	// not the pre-patch snapshot.
	require.Eventually(t, func() bool {
		persisted, err := repo.Load(context.Background())
		if err != nil {
			return false
		}
		return persisted.Scratchpad == "from-post" && persisted.FindProject(p.ID) != nil
	}, 2*time.Second, 10*time.Millisecond)

	// And it must stay that way after the window has fully elapsed.
	time.Sleep(250 * time.Millisecond)
	persisted, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-post", persisted.Scratchpad)
	assert.NotNil(t, persisted.FindProject(p.ID))
}

func TestApplyPatchReloadsNormalizedState(t *testing.T) {
	docs := newDocService(t)

	tasks := []entities.Task{{
		ID:        "t1",
		ProjectID: "p1",
		Subtasks:  []entities.Subtask{{ID: "s1", StoryPoints: 4}},
	}}
	doc, err := docs.ApplyPatch(context.Background(), ports.DocumentPatch{Tasks: &tasks})
	require.NoError(t, err)

	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, 4, doc.Tasks[0].StoryPoints)
	assert.Equal(t, entities.TaskStatusTodo, doc.Tasks[0].Status)
}
