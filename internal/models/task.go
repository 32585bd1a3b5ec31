package models

// Task - единственная сущность хранилища
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Структура только для HTTP-запроса на создание.
// Указатель отличает отсутствующее поле от пустой строки.
type CreateTaskRequest struct {
	Title *string `json:"title"`
}

// UpdateTaskRequest - частичное обновление: nil означает "не менять"
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// SeedTasks возвращает начальный набор задач, с которым стартует хранилище
func SeedTasks() []Task {
	return []Task{
		{ID: 1, Title: "Deploy to Production", Completed: false},
		{ID: 2, Title: "Setup CI/CD Pipeline", Completed: true},
		{ID: 3, Title: "Configure Domain", Completed: false},
	}
}
