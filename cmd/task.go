package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "github.com/jacqinthebox/todolist/internal/configs"
	model "github.com/jacqinthebox/todolist/internal/models"
	"github.com/jacqinthebox/todolist/internal/storage"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore(cmd)

		tasks, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		for _, task := range tasks {
			printTask(&task)
		}
		return nil
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore(cmd)

		task, err := store.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Task added: %s\n", task.ID)
		printTask(task)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore(cmd)

		completed := true
		task, err := store.Update(cmd.Context(), args[0], storage.TaskUpdate{Completed: &completed})
		if err != nil {
			return err
		}

		fmt.Printf("Task completed: %s\n", task.ID)
		printTask(task)
		return nil
	},
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle a task's completion status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore(cmd)

		task, err := store.Toggle(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		status := "incomplete"
		if task.Completed {
			status = "completed"
		}
		fmt.Printf("Task %s marked as %s\n", task.ID, status)
		printTask(task)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore(cmd)

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Task deleted: %s\n", args[0])
		return nil
	},
}

func openStore(cmd *cobra.Command) storage.Store {
	_ = godotenv.Load()

	cfg := config.Load()
	store, err := storage.New(cmd.Context(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize %s backend: %v", cfg.Backend, err)
	}
	return store
}

func printTask(task *model.Task) {
	status := "☐"
	if task.Completed {
		status = "✓"
	}
	fmt.Printf("%s: [%s] %s\n", task.ID, status, task.Title)
}

func init() {
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskDoneCmd, taskToggleCmd, taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}
