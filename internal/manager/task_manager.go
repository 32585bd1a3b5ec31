package manager

import (
	"context"
	"errors"
	"strings"
	"time"

	"tasklist/internal/models"
	"tasklist/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrTitleRequired = errors.New("title is required")

var (
	addTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_added_total",
			Help: "Total number of AddTask operations",
		},
		[]string{"status"},
	)

	updateTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_updated_total",
			Help: "Total number of UpdateTask operations",
		},
		[]string{"status"},
	)

	deleteTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_deleted_total",
			Help: "Total number of DeleteTask operations",
		},
		[]string{"status"},
	)

	taskTitleLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_task_title_length_bytes",
			Help:    "Length distribution of task titles",
			Buckets: []float64{10, 50, 100, 500, 1000},
		},
	)

	addTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_add_task_duration_seconds",
			Help:    "Duration of AddTask operation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	updateTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_update_task_duration_seconds",
			Help:    "Duration of UpdateTask operation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// TaskManager - бизнес-слой над хранилищем. Хранилище создается при старте
// и передается сюда явно.
type TaskManager struct {
	storage storage.Storage
}

func NewTaskManagerWithStorage(st storage.Storage) *TaskManager {
	return &TaskManager{storage: st}
}

// NewTaskManager создает менеджер с in-memory хранилищем и начальными задачами
func NewTaskManager() *TaskManager {
	return NewTaskManagerWithStorage(storage.NewMemoryStorage(models.SeedTasks()...))
}

func (tm *TaskManager) AddTask(ctx context.Context, title string) (models.Task, error) {
	startTime := time.Now()
	defer func() {
		addTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	if strings.TrimSpace(title) == "" {
		addTaskCount.WithLabelValues("error").Inc()
		return models.Task{}, ErrTitleRequired
	}

	task, err := tm.storage.AddTask(ctx, title)
	if err != nil {
		addTaskCount.WithLabelValues("error").Inc()
		return models.Task{}, err
	}

	addTaskCount.WithLabelValues("success").Inc()
	taskTitleLength.Observe(float64(len(title)))

	return task, nil
}

func (tm *TaskManager) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return tm.storage.GetAllTasks(ctx)
}

func (tm *TaskManager) GetTask(ctx context.Context, id int) (*models.Task, error) {
	return tm.storage.GetTask(ctx, id)
}

func (tm *TaskManager) UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error) {
	startTime := time.Now()
	defer func() {
		updateTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	task, err := tm.storage.UpdateTask(ctx, id, req)
	if err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	updateTaskCount.WithLabelValues("success").Inc()
	return task, nil
}

func (tm *TaskManager) DeleteTask(ctx context.Context, id int) error {
	if err := tm.storage.DeleteTask(ctx, id); err != nil {
		deleteTaskCount.WithLabelValues("error").Inc()
		return err
	}

	deleteTaskCount.WithLabelValues("success").Inc()
	return nil
}
