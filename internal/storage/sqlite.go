package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tasklist/internal/models"

	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN - приватная база в памяти процесса, после рестарта данных нет
const DefaultSQLiteDSN = ":memory:"

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(ctx context.Context, dsn string, seed ...models.Task) (*SQLiteStorage, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	// Одно соединение: у каждого соединения к :memory: своя база,
	// заодно все записи идут последовательно.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seed(ctx, seed); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStorage) createTables(ctx context.Context) error {
	// AUTOINCREMENT не дает SQLite переиспользовать ID удаленных задач
	createTasksTable := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	)`

	if _, err := s.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("ошибка создания таблицы tasks: %w", err)
	}
	return nil
}

// seed заполняет только пустую таблицу
func (s *SQLiteStorage) seed(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return fmt.Errorf("ошибка подсчета задач: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, task := range tasks {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO tasks (id, title, completed) VALUES (?, ?, ?)",
			task.ID, task.Title, task.Completed,
		)
		if err != nil {
			return fmt.Errorf("ошибка добавления начальной задачи %d: %w", task.ID, err)
		}
	}

	return tx.Commit()
}

// Закрытие соединения
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) AddTask(ctx context.Context, title string) (models.Task, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (title, completed) VALUES (?, ?)",
		title, false,
	)
	if err != nil {
		return models.Task{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{ID: int(id), Title: title, Completed: false}, nil
}

func (s *SQLiteStorage) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	// ID растет монотонно, так что ORDER BY id = порядок добавления
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, completed FROM tasks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (s *SQLiteStorage) GetTask(ctx context.Context, id int) (*models.Task, error) {
	return getTask(ctx, s.db, id)
}

func (s *SQLiteStorage) UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Сначала получаем текущую задачу
	task, err := getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(task, req)

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET title = ?, completed = ? WHERE id = ?",
		task.Title, task.Completed, id,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *SQLiteStorage) DeleteTask(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// queryRower покрывает и *sql.DB, и *sql.Tx
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryRower, id int) (*models.Task, error) {
	var task models.Task
	err := q.QueryRowContext(ctx,
		"SELECT id, title, completed FROM tasks WHERE id = ?", id,
	).Scan(&task.ID, &task.Title, &task.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Вспомогательная функция для сканирования задач
func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
