package console

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"tasklist/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Task Manager</title>
</head>
<body>
<header>
<h1>Fullstack DevOps Deployment</h1>
{{with .APIInfo}}<p class="api-info">{{.Message}} - v{{.Version}}</p>{{end}}
</header>
<main>
<h2>Task Manager</h2>
<form method="post" action="/tasks">
<input type="text" name="title" value="{{.Input}}" placeholder="Enter a new task...">
<button type="submit">Add Task</button>
</form>
{{if .Error}}<div class="error-message">Error: {{.Error}}</div>{{end}}
{{if .Loading}}<div class="loading">Loading tasks...</div>
{{else if not .Tasks}}<p class="no-tasks">No tasks yet. Add one above!</p>
{{else}}<ul class="task-list">
{{range .Tasks}}<li class="task-item{{if .Completed}} completed{{end}}">
<form method="post" action="/tasks/{{.ID}}/toggle"><button type="submit">{{if .Completed}}[x]{{else}}[ ]{{end}}</button></form>
<span class="task-title">{{.Title}}</span>
<form method="post" action="/tasks/{{.ID}}/delete"><button type="submit">Delete</button></form>
</li>
{{end}}</ul>
{{end}}
</main>
</body>
</html>
`))

// NewHandler отдает страницу консоли и принимает действия пользователя.
// Каждое действие - ровно один запрос к сервису задач, затем redirect на /.
func NewHandler(c *Console) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", renderHandler(c))
	r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
		c.Load(r.Context())
		redirectHome(w, r)
	})
	r.Post("/tasks", func(w http.ResponseWriter, r *http.Request) {
		c.SetInput(r.FormValue("title"))
		c.Add(r.Context())
		redirectHome(w, r)
	})
	r.Post("/tasks/{id}/toggle", withTaskID(c.Toggle))
	r.Post("/tasks/{id}/delete", withTaskID(c.Delete))

	return r
}

func renderHandler(c *Console) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, c.Snapshot()); err != nil {
			logger.Error(r.Context(), err, "Ошибка отрисовки страницы")
		}
	}
}

func withTaskID(action func(ctx context.Context, id int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}
		action(r.Context(), id)
		redirectHome(w, r)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
