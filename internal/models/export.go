package models

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{"id", "title", "completed"}

func WriteJSON(w io.Writer, tasks []Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func WriteCSV(w io.Writer, tasks []Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, task := range tasks {
		record := []string{
			strconv.Itoa(task.ID),
			task.Title,
			strconv.FormatBool(task.Completed),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadJSON(r io.Reader) ([]Task, error) {
	var tasks []Task
	if err := json.NewDecoder(r).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("ошибка чтения JSON: %w", err)
	}
	return tasks, nil
}

func ReadCSV(r io.Reader) ([]Task, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения CSV: %w", err)
	}

	var tasks []Task
	for i, record := range records {
		if i == 0 && len(record) > 0 && record[0] == csvHeader[0] {
			continue
		}
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("строка %d: ожидалось %d полей, получено %d", i+1, len(csvHeader), len(record))
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("строка %d: некорректный id: %w", i+1, err)
		}
		completed, err := strconv.ParseBool(record[2])
		if err != nil {
			return nil, fmt.Errorf("строка %d: некорректный completed: %w", i+1, err)
		}
		tasks = append(tasks, Task{ID: id, Title: record[1], Completed: completed})
	}
	return tasks, nil
}

// SaveJSON и SaveCSV пишут экспорт в файл
func SaveJSON(path string, tasks []Task) error {
	return saveFile(path, tasks, WriteJSON)
}

func SaveCSV(path string, tasks []Task) error {
	return saveFile(path, tasks, WriteCSV)
}

func LoadJSON(path string) ([]Task, error) {
	return loadFile(path, ReadJSON)
}

func LoadCSV(path string) ([]Task, error) {
	return loadFile(path, ReadCSV)
}

func saveFile(path string, tasks []Task, write func(io.Writer, []Task) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, tasks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadFile(path string, read func(io.Reader) ([]Task, error)) ([]Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}
