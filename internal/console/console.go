package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tasklist/internal/logger"
	"tasklist/internal/models"
)

// State - то, что видит пользователь: последняя подтвержденная сервером копия списка.
type State struct {
	Tasks   []models.Task
	Input   string
	Loading bool
	Error   string
	APIInfo *APIInfo
}

// Console хранит состояние интерфейса. Изменения применяются только после
// ответа сервиса, оптимистичных обновлений нет.
type Console struct {
	client *Client

	mu    sync.Mutex
	state State
}

func New(client *Client) *Console {
	return &Console{
		client: client,
		state: State{
			Tasks:   []models.Task{},
			Loading: true,
		},
	}
}

// Load выполняет два независимых запроса: описание API и список задач.
// Ошибка описания только логируется, ошибка списка показывается пользователю.
func (c *Console) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		info, err := c.client.APIInfo(ctx)
		if err != nil {
			logger.Error(ctx, err, "Не удалось получить описание API")
			return
		}
		c.mu.Lock()
		c.state.APIInfo = info
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		c.fetchTasks(ctx)
	}()

	wg.Wait()
}

func (c *Console) fetchTasks(ctx context.Context) {
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()

	tasks, err := c.client.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.state.Error = err.Error()
		return
	}
	c.state.Tasks = tasks
	c.state.Error = ""
}

func (c *Console) SetInput(text string) {
	c.mu.Lock()
	c.state.Input = text
	c.mu.Unlock()
}

// Add отправляет текущий ввод. Пустой ввод молча игнорируется.
func (c *Console) Add(ctx context.Context) {
	c.mu.Lock()
	title := c.state.Input
	c.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return
	}

	task, err := c.client.CreateTask(ctx, title)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Error = err.Error()
		return
	}
	c.state.Tasks = append(c.state.Tasks, task)
	c.state.Input = ""
}

func (c *Console) Toggle(ctx context.Context, id int) {
	c.mu.Lock()
	current, ok := c.find(id)
	c.mu.Unlock()

	if !ok {
		c.setError(fmt.Sprintf("Task %d not found", id))
		return
	}

	completed := !current.Completed
	updated, err := c.client.UpdateTask(ctx, id, models.UpdateTaskRequest{Completed: &completed})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Error = err.Error()
		return
	}
	for i := range c.state.Tasks {
		if c.state.Tasks[i].ID == id {
			c.state.Tasks[i] = updated
		}
	}
}

func (c *Console) Delete(ctx context.Context, id int) {
	err := c.client.DeleteTask(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Error = err.Error()
		return
	}
	kept := make([]models.Task, 0, len(c.state.Tasks))
	for _, task := range c.state.Tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	c.state.Tasks = kept
}

// Snapshot возвращает копию состояния для отрисовки
func (c *Console) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Tasks = make([]models.Task, len(c.state.Tasks))
	copy(s.Tasks, c.state.Tasks)
	return s
}

func (c *Console) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

// find вызывается только под c.mu
func (c *Console) find(id int) (models.Task, bool) {
	for _, task := range c.state.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return models.Task{}, false
}
