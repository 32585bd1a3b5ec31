package storage

import (
	"context"
	"errors"
	"sync"

	"tasklist/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// Storage интерфейс для абстракции хранилища
type Storage interface {
	AddTask(ctx context.Context, title string) (models.Task, error)
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int) (*models.Task, error)
	UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id int) error

	// Закрытие соединения
	Close() error
}

// applyUpdate переносит в задачу только переданные поля.
// Пустой title не затирает текущий, completed=false применяется.
func applyUpdate(task *models.Task, req models.UpdateTaskRequest) {
	if req.Title != nil && *req.Title != "" {
		task.Title = *req.Title
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
}

// MemoryStorage хранит задачи в памяти процесса в порядке добавления.
// ID берется из счетчика, а не из len(tasks)+1, поэтому после удаления не повторяется.
type MemoryStorage struct {
	tasks  []models.Task
	nextID int
	mu     sync.Mutex
}

func NewMemoryStorage(seed ...models.Task) *MemoryStorage {
	m := &MemoryStorage{
		tasks:  make([]models.Task, 0, len(seed)),
		nextID: 1,
	}
	for _, task := range seed {
		m.tasks = append(m.tasks, task)
		if task.ID >= m.nextID {
			m.nextID = task.ID + 1
		}
	}
	return m
}

func (m *MemoryStorage) AddTask(ctx context.Context, title string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := models.Task{
		ID:        m.nextID,
		Title:     title,
		Completed: false,
	}
	m.nextID++
	m.tasks = append(m.tasks, task)

	return task, nil
}

func (m *MemoryStorage) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]models.Task, len(m.tasks))
	copy(tasks, m.tasks)
	return tasks, nil
}

func (m *MemoryStorage) GetTask(ctx context.Context, id int) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i == -1 {
		return nil, ErrTaskNotFound
	}
	task := m.tasks[i]
	return &task, nil
}

func (m *MemoryStorage) UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i == -1 {
		return nil, ErrTaskNotFound
	}
	applyUpdate(&m.tasks[i], req)

	task := m.tasks[i]
	return &task, nil
}

func (m *MemoryStorage) DeleteTask(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i == -1 {
		return ErrTaskNotFound
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

// indexOf вызывается только под m.mu
func (m *MemoryStorage) indexOf(id int) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
