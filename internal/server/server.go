package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"tasklist/internal/logger"
	"tasklist/internal/manager"
	"tasklist/internal/models"
	"tasklist/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	msgTaskNotFound     = "Task not found"
	msgTitleRequired    = "Title is required"
	msgInvalidBody      = "Invalid request body"
	msgInternalError    = "Something went wrong!"
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
)

var processStartedAt = time.Now()

// APIDescription - статический документ, который отдается на GET /
type APIDescription struct {
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

type Endpoints struct {
	Health string `json:"health"`
	Tasks  string `json:"tasks"`
}

type HealthStatus struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

func DefaultAPIDescription() APIDescription {
	return APIDescription{
		Message: "Welcome to Fullstack Deployment API",
		Version: "1.0.0",
		Endpoints: Endpoints{
			Health: "/health",
			Tasks:  "/api/tasks",
		},
	}
}

func NewRouter(tm *manager.TaskManager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(corsMiddleware().Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(metricsMiddleware)
	r.Use(recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/", describeHandler(DefaultAPIDescription()))
	r.Get("/health", healthHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", listTasksHandler(tm))
		r.Post("/", addTaskHandler(tm))
		r.Get("/{id}", getTaskHandler(tm))
		r.Put("/{id}", updateTaskHandler(tm))
		r.Delete("/{id}", deleteTaskHandler(tm))
	})

	return r
}

func describeHandler(desc APIDescription) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, desc)
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Uptime:    time.Since(processStartedAt).Seconds(),
		})
	}
}

func listTasksHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := tm.GetAllTasks(r.Context())
		if err != nil {
			writeTaskError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func getTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(r)
		if !ok {
			writeError(w, http.StatusNotFound, msgTaskNotFound)
			return
		}

		task, err := tm.GetTask(r.Context(), id)
		if err != nil {
			writeTaskError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func addTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateTaskRequest
		if !decodeBody(w, r, &req) {
			return
		}

		title := ""
		if req.Title != nil {
			title = *req.Title
		}

		task, err := tm.AddTask(r.Context(), title)
		if err != nil {
			writeTaskError(w, r, err)
			return
		}

		logger.Info(r.Context(), "Задача создана", "taskID", task.ID)
		writeJSON(w, http.StatusCreated, task)
	}
}

func updateTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(r)
		if !ok {
			writeError(w, http.StatusNotFound, msgTaskNotFound)
			return
		}

		var req models.UpdateTaskRequest
		if !decodeBody(w, r, &req) {
			return
		}

		task, err := tm.UpdateTask(r.Context(), id, req)
		if err != nil {
			writeTaskError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func deleteTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(r)
		if !ok {
			writeError(w, http.StatusNotFound, msgTaskNotFound)
			return
		}

		if err := tm.DeleteTask(r.Context(), id); err != nil {
			writeTaskError(w, r, err)
			return
		}

		logger.Info(r.Context(), "Задача удалена", "taskID", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// taskID: нечисловой id не совпадет ни с одной задачей, поэтому ok=false ведет к 404
func taskID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// decodeBody: пустое тело считается пустым объектом
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		logger.Debug(r.Context(), "Некорректное тело запроса", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, manager.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, msgTitleRequired)
	default:
		// Детали ошибки остаются в логе
		logger.Error(r.Context(), err, "Ошибка обработки запроса", "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
