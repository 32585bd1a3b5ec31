package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tasklist/internal/models"
)

// APIInfo - документ, который сервис отдает на GET /
type APIInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// APIError - любой ответ сервиса со статусом не 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client - HTTP-клиент сервиса задач. Повторов и таймаутов нет,
// отмена только через контекст.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) APIInfo(ctx context.Context) (*APIInfo, error) {
	var info APIInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, &info, "Failed to fetch API info"); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks, "Failed to fetch tasks"); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title string) (models.Task, error) {
	var task models.Task
	req := models.CreateTaskRequest{Title: &title}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &task, "Failed to add task"); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (models.Task, error) {
	var task models.Task
	path := fmt.Sprintf("/api/tasks/%d", id)
	if err := c.do(ctx, http.MethodPut, path, req, &task, "Failed to update task"); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/tasks/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "Failed to delete task")
}

// do выполняет запрос. failMsg используется, если сервис не прислал свое сообщение об ошибке.
func (c *Client) do(ctx context.Context, method, path string, in, out any, failMsg string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ошибка кодирования запроса: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: failMsg}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	return nil
}
