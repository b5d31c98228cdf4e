// Package normalize turns arbitrary persisted JSON, possibly written
// by an older schema version, into a fully populated Document. It is
// the single point of schema-version tolerance: every read and write
// funnels through it, and nothing unvalidated crosses into the
// mutation layer.
package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// nowMillis is overridable in tests so backfilled timestamps are
// deterministic.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// newID is overridable in tests. Missing or blank ids are backfilled
// with UUIDs rather than timestamp tokens; the source material's
// timestamp ids risk collisions under rapid creation.
var newID = func() string { return uuid.NewString() }

// Document normalizes a raw JSON blob. Malformed JSON yields the seed
// document; this function never fails.
func Document(data []byte) *entities.Document {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Seed()
	}
	return Value(raw)
}

// Value normalizes an already-decoded loose value. Pure: the input is
// never modified, and normalizing twice yields the same document.
func Value(raw any) *entities.Document {
	m := asMap(raw)

	doc := &entities.Document{
		Categories: categories(m["categories"]),
		Projects:   projects(m["projects"]),
		Tasks:      tasks(m["tasks"]),
		QuickTasks: quickTasks(m["quickTasks"]),
		Scratchpad: asString(m["scratchpad"], ""),
	}
	doc.PersonalTodos = personalTodos(m["personalTodos"])

	return doc
}

func categories(v any) []entities.ProjectCategory {
	raw := asSlice(v)
	if raw == nil {
		return seedCategories()
	}

	out := make([]entities.ProjectCategory, 0, len(raw))
	hasDefault := false
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}
		c := entities.ProjectCategory{
			ID:    idOf(m),
			Name:  asString(m["name"], "Untitled"),
			Color: asString(m["color"], defaultCategoryColor),
		}
		if c.ID == entities.DefaultCategoryID {
			hasDefault = true
		}
		out = append(out, c)
	}

	// The default category is referenced by every fallback path and
	// must always exist.
	if !hasDefault {
		out = append([]entities.ProjectCategory{defaultCategory()}, out...)
	}
	return out
}

func projects(v any) []entities.Project {
	raw := asSlice(v)
	out := make([]entities.Project, 0, len(raw))
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}

		p := entities.Project{
			ID:          idOf(m),
			Name:        asString(m["name"], ""),
			Description: asString(m["description"], ""),
			Status:      entities.ProjectStatus(asString(m["status"], "")),
			Priority:    asInt(m["priority"], entities.DefaultProjectPriority),
			CategoryID:  asString(m["categoryId"], ""),
			CategoryIDs: asStrings(m["categoryIds"]),
			Notes:       notes(m["notes"]),
		}
		if !p.Status.IsValid() {
			p.Status = entities.ProjectStatusBacklog
		}
		p.SyncCategories()
		out = append(out, p)
	}
	return out
}

func notes(v any) []entities.Note {
	raw := asSlice(v)
	out := make([]entities.Note, 0, len(raw))
	sawMain := false
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}
		n := entities.Note{
			ID:          idOf(m),
			Title:       asString(m["title"], ""),
			Content:     noteContent(m["content"]),
			ParentID:    asString(m["parentId"], ""),
			IsCollapsed: asBool(m["isCollapsed"], false),
			IsMain:      asBool(m["isMain"], false),
		}
		// At most one main note per project: first flag wins.
		if n.IsMain {
			if sawMain {
				n.IsMain = false
			}
			sawMain = true
		}
		out = append(out, n)
	}
	return out
}

// noteContent accepts either a plain string or the legacy structured
// block list ([{text|content: "..."}...]) and flattens the latter to
// newline-joined plain text.
func noteContent(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	blocks := asSlice(v)
	if blocks == nil {
		return ""
	}
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		m := asMap(b)
		if m == nil {
			continue
		}
		if s, ok := m["text"].(string); ok {
			lines = append(lines, s)
		} else if s, ok := m["content"].(string); ok {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

func tasks(v any) []entities.Task {
	raw := asSlice(v)
	out := make([]entities.Task, 0, len(raw))
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}

		t := entities.Task{
			ID:          idOf(m),
			ProjectID:   asString(m["projectId"], ""),
			Title:       asString(m["title"], ""),
			Description: asString(m["description"], ""),
			Status:      entities.TaskStatus(asString(m["status"], "")),
			Priority:    entities.TaskPriority(asString(m["priority"], "")),
			Deadline:    asInt64(m["deadline"], 0),
			Link:        asString(m["link"], ""),
			Subtasks:    subtasks(m["subtasks"]),
			Logs:        logs(m["logs"]),
		}
		if !t.Status.IsValid() {
			t.Status = entities.TaskStatusTodo
		}
		if !t.Priority.IsValid() {
			t.Priority = entities.TaskPriorityMedium
		}
		if t.Deadline < 0 {
			t.Deadline = 0
		}
		// StoryPoints is derived, whatever the blob claims.
		t.RecalcStoryPoints()
		out = append(out, t)
	}
	return out
}

func subtasks(v any) []entities.Subtask {
	raw := asSlice(v)
	out := make([]entities.Subtask, 0, len(raw))
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}
		st := entities.Subtask{
			ID:          idOf(m),
			Title:       asString(m["title"], ""),
			Completed:   asBool(m["completed"], false),
			StoryPoints: asInt(m["storyPoints"], 0),
		}
		if st.StoryPoints < 0 {
			st.StoryPoints = 0
		}
		out = append(out, st)
	}
	return out
}

func quickTasks(v any) []entities.QuickTask {
	raw := asSlice(v)
	out := make([]entities.QuickTask, 0, len(raw))
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}

		q := entities.QuickTask{
			ID:          idOf(m),
			ProjectID:   asString(m["projectId"], ""),
			Title:       asString(m["title"], ""),
			Description: asString(m["description"], ""),
			Points:      clamp(asInt(m["points"], entities.MinPoints), entities.MinPoints, entities.MaxPoints),
			Priority:    entities.TaskPriority(asString(m["priority"], "")),
			Status:      entities.TaskStatus(asString(m["status"], "")),
			Link:        asString(m["link"], ""),
			Logs:        logs(m["logs"]),
		}
		if !q.Priority.IsValid() {
			q.Priority = entities.TaskPriorityLow
		}
		if !q.Status.IsValid() {
			q.Status = entities.TaskStatusTodo
		}
		q.IsDone = q.Status == entities.TaskStatusDone || asBool(m["isDone"], false)
		q.Title = q.DisplayTitle()
		out = append(out, q)
	}
	return out
}

// logs drops entries whose content is empty after trimming and
// backfills missing ids and timestamps.
func logs(v any) []entities.Log {
	raw := asSlice(v)
	out := make([]entities.Log, 0, len(raw))
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}
		content := asString(m["content"], "")
		if strings.TrimSpace(content) == "" {
			continue
		}
		l := entities.Log{
			ID:        idOf(m),
			Content:   content,
			CreatedAt: asInt64(m["createdAt"], 0),
		}
		if l.CreatedAt <= 0 {
			l.CreatedAt = nowMillis()
		}
		out = append(out, l)
	}
	return out
}

func personalTodos(v any) entities.PersonalTodos {
	m := asMap(v)
	pt := entities.PersonalTodos{
		Categories:  todoCategories(m["categories"]),
		Todos:       todoItems(m["todos"]),
		ActiveOrder: asStrings(m["activeOrder"]),
	}
	pt.SyncActiveOrder()
	return pt
}

func todoCategories(v any) []entities.TodoCategory {
	raw := asSlice(v)
	if raw == nil {
		return seedTodoCategories()
	}
	out := make([]entities.TodoCategory, 0, len(raw))
	for i, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}
		out = append(out, entities.TodoCategory{
			ID:    idOf(m),
			Name:  asString(m["name"], "Untitled"),
			Color: asString(m["color"], defaultCategoryColor),
			Order: asInt(m["order"], i),
		})
	}
	return out
}

func todoItems(v any) []entities.TodoItem {
	raw := asSlice(v)
	out := make([]entities.TodoItem, 0, len(raw))
	for _, el := range raw {
		m := asMap(el)
		if m == nil {
			continue
		}
		td := entities.TodoItem{
			ID:         idOf(m),
			Text:       asString(m["text"], ""),
			CategoryID: asString(m["categoryId"], ""),
			Status:     entities.TodoStatus(asString(m["status"], "")),
			Done:       asBool(m["done"], false),
			CreatedAt:  asInt64(m["createdAt"], 0),
			Notes:      asString(m["notes"], ""),
			Link:       asString(m["link"], ""),
			Logs:       logs(m["logs"]),
		}
		if !td.Status.IsValid() {
			td.Status = entities.TodoStatusBacklog
		}
		if td.CreatedAt <= 0 {
			td.CreatedAt = nowMillis()
		}
		out = append(out, td)
	}
	return out
}

func idOf(m map[string]any) string {
	id := strings.TrimSpace(asString(m["id"], ""))
	if id == "" {
		id = newID()
	}
	return id
}
