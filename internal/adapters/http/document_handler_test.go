package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/adapters/blob"
	"github.com/soloplan/core/internal/adapters/repository"
	"github.com/soloplan/core/internal/application/persist"
	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/domain/entities"
	"github.com/soloplan/core/internal/infrastructure/logger"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// newTestEnv wires a file-backed document service behind a fresh echo
// instance, mirroring the production wiring minus the middleware.
func newTestEnv(t *testing.T) (*echo.Echo, *services.DocumentService) {
	t.Helper()

	nop := logger.NewNop()
	store := blob.NewFileStore(filepath.Join(t.TempDir(), "doc.json"))
	repo := repository.NewDocumentRepository(store, nop)
	persister := persist.New(5*time.Millisecond, time.Second, repo.Save, nil, nop, nil)
	t.Cleanup(func() { persister.Close(context.Background()) })

	docs := services.NewDocumentService(repo, persister, nop)
	require.NoError(t, docs.Init(context.Background()))

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e, docs
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetDocumentReturnsSeed(t *testing.T) {
	e, docs := newTestEnv(t)
	h := NewDocumentHandler(docs, logger.NewNop())
	e.GET("/api/v1/document", h.GetDocument)

	rec := doJSON(e, http.MethodGet, "/api/v1/document", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc entities.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Empty(t, doc.Projects)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, entities.DefaultCategoryID, doc.Categories[0].ID)
}

func TestSaveDocumentMergesPatch(t *testing.T) {
	e, docs := newTestEnv(t)
	h := NewDocumentHandler(docs, logger.NewNop())
	e.GET("/api/v1/document", h.GetDocument)
	e.POST("/api/v1/document", h.SaveDocument)

	rec := doJSON(e, http.MethodPost, "/api/v1/document", `{"scratchpad":"jotted down"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/document",
		`{"projects":[{"id":"p1","name":"Alpha","status":"Bogus"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc entities.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	// The project patch left the scratchpad alone, and the saved
	// project came back normalized.
	assert.Equal(t, "jotted down", doc.Scratchpad)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, entities.ProjectStatusBacklog, doc.Projects[0].Status)
	assert.Equal(t, []string{entities.DefaultCategoryID}, doc.Projects[0].CategoryIDs)
}

func TestCreateAndFetchProject(t *testing.T) {
	e, docs := newTestEnv(t)
	h := NewProjectHandler(docs, logger.NewNop())
	e.POST("/api/v1/projects", h.CreateProject)
	e.GET("/api/v1/projects/:id", h.GetProject)

	rec := doJSON(e, http.MethodPost, "/api/v1/projects", `{"name":"Alpha"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entities.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Alpha", created.Name)
	require.Len(t, created.Notes, 1)
	assert.True(t, created.Notes[0].IsMain)

	rec = doJSON(e, http.MethodGet, "/api/v1/projects/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/projects/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProjectValidation(t *testing.T) {
	e, docs := newTestEnv(t)
	h := NewProjectHandler(docs, logger.NewNop())
	e.POST("/api/v1/projects", h.CreateProject)

	// Name is required.
	rec := doJSON(e, http.MethodPost, "/api/v1/projects", `{"description":"nameless"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskEndpointsDeriveStoryPoints(t *testing.T) {
	e, docs := newTestEnv(t)
	ph := NewProjectHandler(docs, logger.NewNop())
	th := NewTaskHandler(docs, logger.NewNop())
	e.POST("/api/v1/projects", ph.CreateProject)
	e.POST("/api/v1/tasks", th.CreateTask)
	e.POST("/api/v1/tasks/:id/subtasks", th.AddSubtask)

	rec := doJSON(e, http.MethodPost, "/api/v1/projects", `{"name":"Alpha"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var project entities.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))

	rec = doJSON(e, http.MethodPost, "/api/v1/tasks",
		`{"projectId":"`+project.ID+`","title":"Build","subtasks":[{"title":"a","storyPoints":3},{"title":"b","storyPoints":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var task entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, 5, task.StoryPoints)

	// Unknown project yields 404, not 500.
	rec = doJSON(e, http.MethodPost, "/api/v1/tasks", `{"projectId":"nope","title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/tasks/"+task.ID+"/subtasks", `{"title":"c","storyPoints":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 9, docs.Document().FindTask(task.ID).StoryPoints)
}

func TestDeleteDefaultCategoryRejected(t *testing.T) {
	e, docs := newTestEnv(t)
	h := NewProjectHandler(docs, logger.NewNop())
	e.DELETE("/api/v1/categories/:id", h.DeleteCategory)

	rec := doJSON(e, http.MethodDelete, "/api/v1/categories/"+entities.DefaultCategoryID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
