package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/console"
	"tasklist/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cfg := config.Load()
	client := console.NewClient(cfg.APIURL, nil)
	ctx := context.Background()

	command := os.Args[1]
	switch command {
	case "add":
		handleAddCommand(ctx, client)
	case "list":
		handleListCommand(ctx, client)
	case "complete":
		handleCompleteCommand(ctx, client)
	case "delete":
		handleDeleteCommand(ctx, client)
	case "export":
		handleExportCommand(ctx, client)
	case "load":
		handleLoadCommand(ctx, client)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

func handleAddCommand(ctx context.Context, client *console.Client) {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	title := addCmd.String("title", "", "Task title")
	addCmd.Parse(os.Args[2:])

	if strings.TrimSpace(*title) == "" {
		fail("Error: --title is required")
	}

	task, err := client.CreateTask(ctx, *title)
	if err != nil {
		fail("Error adding task: %v", err)
	}

	fmt.Printf("Added task with ID %d\n", task.ID)
}

func handleListCommand(ctx context.Context, client *console.Client) {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	filter := listCmd.String("filter", "all", "Filter tasks (all|completed|pending)")
	listCmd.Parse(os.Args[2:])

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		fail("Error listing tasks: %v", err)
	}

	// Фильтрация на стороне клиента, у API фильтров нет
	var completed *bool
	switch *filter {
	case "completed":
		val := true
		completed = &val
	case "pending":
		val := false
		completed = &val
	}

	shown := 0
	for _, task := range tasks {
		if completed != nil && task.Completed != *completed {
			continue
		}
		status := "Pending"
		if task.Completed {
			status = "Completed"
		}
		fmt.Printf("%d: %s [%s]\n", task.ID, task.Title, status)
		shown++
	}

	if shown == 0 {
		fmt.Println("No tasks found")
	}
}

func handleCompleteCommand(ctx context.Context, client *console.Client) {
	completeCmd := flag.NewFlagSet("complete", flag.ExitOnError)
	id := completeCmd.Int("id", 0, "Task ID to toggle")
	completeCmd.Parse(os.Args[2:])

	if *id == 0 {
		fail("Error: --id is required")
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		fail("Error loading tasks: %v", err)
	}

	var current *models.Task
	for i := range tasks {
		if tasks[i].ID == *id {
			current = &tasks[i]
			break
		}
	}
	if current == nil {
		fail("Error: task %d not found", *id)
	}

	completed := !current.Completed
	updated, err := client.UpdateTask(ctx, *id, models.UpdateTaskRequest{Completed: &completed})
	if err != nil {
		fail("Error updating task: %v", err)
	}

	if updated.Completed {
		fmt.Printf("Task %d marked as completed\n", *id)
	} else {
		fmt.Printf("Task %d marked as pending\n", *id)
	}
}

func handleDeleteCommand(ctx context.Context, client *console.Client) {
	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	id := deleteCmd.Int("id", 0, "Task ID to delete")
	deleteCmd.Parse(os.Args[2:])

	if *id == 0 {
		fail("Error: --id is required")
	}

	if err := client.DeleteTask(ctx, *id); err != nil {
		fail("Error deleting task: %v", err)
	}

	fmt.Printf("Task %d deleted\n", *id)
}

func handleExportCommand(ctx context.Context, client *console.Client) {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	format := exportCmd.String("format", "json", "Export format (json|csv)")
	outFile := exportCmd.String("out", "", "Output file path")
	exportCmd.Parse(os.Args[2:])

	if *outFile == "" {
		fail("Error: --out is required")
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		fail("Error loading tasks: %v", err)
	}

	switch *format {
	case "json":
		err = models.SaveJSON(*outFile, tasks)
	case "csv":
		err = models.SaveCSV(*outFile, tasks)
	default:
		fail("Error: unsupported format %s", *format)
	}

	if err != nil {
		fail("Error exporting tasks: %v", err)
	}

	fmt.Printf("Tasks exported to %s in %s format\n", *outFile, *format)
}

// load создает задачи из файла как новые: ID назначает сервис, флаг completed переносится
func handleLoadCommand(ctx context.Context, client *console.Client) {
	loadCmd := flag.NewFlagSet("load", flag.ExitOnError)
	file := loadCmd.String("file", "", "File to load tasks from")
	loadCmd.Parse(os.Args[2:])

	if *file == "" {
		fail("Error: --file is required")
	}

	var tasks []models.Task
	var err error

	if strings.HasSuffix(*file, ".json") {
		tasks, err = models.LoadJSON(*file)
	} else if strings.HasSuffix(*file, ".csv") {
		tasks, err = models.LoadCSV(*file)
	} else {
		fail("Error: unsupported file format, use .json or .csv")
	}

	if err != nil {
		fail("Error loading tasks: %v", err)
	}

	for _, task := range tasks {
		created, err := client.CreateTask(ctx, task.Title)
		if err != nil {
			fail("Error adding task: %v", err)
		}
		if task.Completed {
			done := true
			if _, err := client.UpdateTask(ctx, created.ID, models.UpdateTaskRequest{Completed: &done}); err != nil {
				fail("Error updating task: %v", err)
			}
		}
	}

	fmt.Printf("Loaded %d tasks from %s\n", len(tasks), *file)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printHelp() {
	fmt.Println(`Usage: todo-app <command> [flags]

Commands:
  add      --title="..."                       Add new task
  list     [--filter=all|completed|pending]    List tasks
  complete --id=ID                             Toggle task completion
  delete   --id=ID                             Delete task
  export   --format=json|csv --out=FILE        Export tasks
  load     --file=FILE                         Create tasks from a .json or .csv file

Server:
  The task service address is taken from API_URL (default http://localhost:5000).`)
}
