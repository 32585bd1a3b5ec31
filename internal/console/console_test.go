package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"tasklist/internal/manager"
	"tasklist/internal/models"
	"tasklist/internal/server"
)

func newStore(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(server.NewRouter(manager.NewTaskManager()))
	t.Cleanup(srv.Close)
	return srv
}

// failingStore отвечает одним и тем же статусом и телом на любой запрос
type failingStore struct {
	requests atomic.Int32
	status   int
	body     string
}

func (f *failingStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	if f.body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newLoadedConsole(t *testing.T, baseURL string) *Console {
	t.Helper()
	c := New(NewClient(baseURL, nil))
	c.Load(context.Background())
	return c
}

func TestLoad(t *testing.T) {
	c := newLoadedConsole(t, newStore(t).URL)
	s := c.Snapshot()

	if s.Loading {
		t.Error("Loading должен сброситься после загрузки")
	}
	if s.Error != "" {
		t.Errorf("Неожиданная ошибка: %s", s.Error)
	}
	if len(s.Tasks) != 3 || s.Tasks[0].Title != "Deploy to Production" {
		t.Errorf("Неверный список задач: %+v", s.Tasks)
	}
	if s.APIInfo == nil || s.APIInfo.Version != "1.0.0" || s.APIInfo.Endpoints["tasks"] != "/api/tasks" {
		t.Errorf("Неверное описание API: %+v", s.APIInfo)
	}
}

func TestLoadFailure(t *testing.T) {
	store := &failingStore{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(store)
	defer srv.Close()

	c := newLoadedConsole(t, srv.URL)
	s := c.Snapshot()

	if s.Error != "Failed to fetch tasks" {
		t.Errorf("Ожидалась ошибка списка, получено %q", s.Error)
	}
	if s.APIInfo != nil {
		t.Error("Описание API не должно быть заполнено")
	}
	if s.Loading {
		t.Error("Loading должен сброситься и при ошибке")
	}
	if got := store.requests.Load(); got != 2 {
		t.Errorf("Ожидалось 2 запроса, получено %d", got)
	}
}

func TestAdd(t *testing.T) {
	c := newLoadedConsole(t, newStore(t).URL)

	c.SetInput("Ship it")
	c.Add(context.Background())

	s := c.Snapshot()
	if len(s.Tasks) != 4 {
		t.Fatalf("Ожидалось 4 задачи, получено %d", len(s.Tasks))
	}
	if s.Tasks[3] != (models.Task{ID: 4, Title: "Ship it"}) {
		t.Errorf("Неверная новая задача: %+v", s.Tasks[3])
	}
	if s.Input != "" {
		t.Errorf("Ввод должен очиститься, получено %q", s.Input)
	}
}

func TestAddBlankSendsNothing(t *testing.T) {
	store := &failingStore{status: http.StatusInternalServerError}
	srv := httptest.NewServer(store)
	defer srv.Close()

	c := New(NewClient(srv.URL, nil))
	for _, input := range []string{"", "   ", "\t"} {
		c.SetInput(input)
		c.Add(context.Background())
	}

	if got := store.requests.Load(); got != 0 {
		t.Errorf("Пустой ввод не должен отправляться, запросов: %d", got)
	}
	if s := c.Snapshot(); s.Error != "" || len(s.Tasks) != 0 {
		t.Errorf("Состояние не должно меняться: %+v", s)
	}
}

func TestAddFailureKeepsInput(t *testing.T) {
	store := &failingStore{status: http.StatusInternalServerError, body: `{"error":"Something went wrong!"}`}
	srv := httptest.NewServer(store)
	defer srv.Close()

	c := New(NewClient(srv.URL, nil))
	c.SetInput("Ship it")
	c.Add(context.Background())

	s := c.Snapshot()
	if s.Error != "Something went wrong!" {
		t.Errorf("Ожидалось сообщение сервера, получено %q", s.Error)
	}
	if s.Input != "Ship it" {
		t.Errorf("Ввод не должен меняться при ошибке, получено %q", s.Input)
	}
	if len(s.Tasks) != 0 {
		t.Errorf("Задача не должна появиться без подтверждения: %+v", s.Tasks)
	}
}

func TestToggle(t *testing.T) {
	c := newLoadedConsole(t, newStore(t).URL)

	c.Toggle(context.Background(), 1)
	if s := c.Snapshot(); !s.Tasks[0].Completed {
		t.Errorf("Задача 1 должна стать выполненной: %+v", s.Tasks[0])
	}

	c.Toggle(context.Background(), 2)
	if s := c.Snapshot(); s.Tasks[1].Completed {
		t.Errorf("Задача 2 должна стать невыполненной: %+v", s.Tasks[1])
	}

	t.Run("unknown id", func(t *testing.T) {
		c.Toggle(context.Background(), 42)
		if s := c.Snapshot(); !strings.Contains(s.Error, "42") {
			t.Errorf("Ожидалась ошибка про задачу 42, получено %q", s.Error)
		}
	})
}

func TestToggleDeletedOnServer(t *testing.T) {
	srv := newStore(t)
	c := newLoadedConsole(t, srv.URL)

	// Задачу удалил другой клиент
	if err := NewClient(srv.URL, nil).DeleteTask(context.Background(), 1); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	c.Toggle(context.Background(), 1)
	s := c.Snapshot()
	if s.Error != "Task not found" {
		t.Errorf("Ожидалось 'Task not found', получено %q", s.Error)
	}
	if s.Tasks[0].ID != 1 || s.Tasks[0].Completed {
		t.Errorf("Локальное состояние не должно меняться: %+v", s.Tasks[0])
	}
}

func TestDelete(t *testing.T) {
	c := newLoadedConsole(t, newStore(t).URL)

	c.Delete(context.Background(), 2)
	s := c.Snapshot()
	if len(s.Tasks) != 2 || s.Tasks[0].ID != 1 || s.Tasks[1].ID != 3 {
		t.Errorf("Неверный список после удаления: %+v", s.Tasks)
	}

	c.Delete(context.Background(), 2)
	s = c.Snapshot()
	if s.Error != "Task not found" {
		t.Errorf("Ожидалось 'Task not found', получено %q", s.Error)
	}
	if len(s.Tasks) != 2 {
		t.Errorf("Список не должен меняться при ошибке: %+v", s.Tasks)
	}
}

func TestClientAPIError(t *testing.T) {
	client := NewClient(newStore(t).URL+"/", nil)

	_, err := client.UpdateTask(context.Background(), 99999, models.UpdateTaskRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Ожидалась APIError, получено %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Task not found" {
		t.Errorf("Неверная ошибка: %+v", apiErr)
	}
}

func TestHandler(t *testing.T) {
	c := newLoadedConsole(t, newStore(t).URL)
	h := NewHandler(c)

	post := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	page := rec.Body.String()
	if !strings.Contains(page, "Welcome to Fullstack Deployment API - v1.0.0") {
		t.Errorf("На странице нет описания API:\n%s", page)
	}
	if !strings.Contains(page, "Setup CI/CD Pipeline") {
		t.Errorf("На странице нет задач:\n%s", page)
	}

	rec = post("/tasks", url.Values{"title": {"<b>Ship it</b>"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("Ожидался redirect на /, получено %d %s", rec.Code, rec.Header().Get("Location"))
	}

	post("/tasks/1/toggle", nil)
	post("/tasks/3/delete", nil)

	s := c.Snapshot()
	if len(s.Tasks) != 3 || !s.Tasks[0].Completed || s.Tasks[2].Title != "<b>Ship it</b>" {
		t.Errorf("Неверное состояние после действий: %+v", s.Tasks)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	page = rec.Body.String()
	if strings.Contains(page, "<b>Ship it</b>") || !strings.Contains(page, "&lt;b&gt;Ship it&lt;/b&gt;") {
		t.Errorf("Название задачи должно экранироваться:\n%s", page)
	}

	if rec := post("/tasks/abc/toggle", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Ожидался 400 для нечислового id, получено %d", rec.Code)
	}
}

func TestHandlerEmptyList(t *testing.T) {
	store := &failingStore{status: http.StatusOK, body: `[]`}
	srv := httptest.NewServer(store)
	defer srv.Close()

	c := newLoadedConsole(t, srv.URL)
	rec := httptest.NewRecorder()
	NewHandler(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(rec.Body.String(), "No tasks yet. Add one above!") {
		t.Errorf("Ожидалось сообщение о пустом списке:\n%s", rec.Body.String())
	}
}
