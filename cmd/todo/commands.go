package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/choro0121/todo-tui/internal/storage"
	"github.com/choro0121/todo-tui/internal/task"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <record>",
		Short: "Append a task; due:today, tomorrow, yesterday and weekend are resolved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			t, err := e.parser.New(strings.Join(args, " "), e.clock.Today())
			if err != nil {
				return err
			}
			tasks, err := e.repo.Load()
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
			tasks = append(tasks, t)
			if err := e.repo.Save(tasks); err != nil {
				return fmt.Errorf("failed to save tasks: %w", err)
			}
			e.log.Info("task added", "task", t.String())
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", len(tasks), t)
			return nil
		},
	}
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var dueBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks with their 1-based number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			tasks, err := e.repo.Load()
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
			listed := numbered(tasks)
			if dueBy != "" {
				listed, err = dueBefore(e.repo, listed, dueBy, e.clock.Today())
				if err != nil {
					return err
				}
			}
			if len(listed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}
			for _, l := range listed {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", l.N, l.Task)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dueBy, "due", "", "only open tasks due on or before this day (YYYY-MM-DD or a due keyword)")
	return cmd
}

func numbered(tasks []task.Task) []storage.Numbered {
	out := make([]storage.Numbered, len(tasks))
	for i, t := range tasks {
		out[i] = storage.Numbered{N: i + 1, Task: t}
	}
	return out
}

// dueBefore keeps the numbers of the full list so they can be passed to
// done and undo. sqlite answers the query itself when it is the backend.
func dueBefore(repo storage.Repository, listed []storage.Numbered, value string, today time.Time) ([]storage.Numbered, error) {
	limit, err := task.ResolveDue(value, today)
	if err != nil {
		return nil, err
	}
	if db, ok := repo.(*storage.SQLite); ok {
		return db.DueBefore(task.FormatDate(limit))
	}
	var out []storage.Numbered
	for _, l := range listed {
		t := l.Task
		if !t.Done && !t.Due.IsZero() && !t.Due.After(limit) {
			out = append(out, l)
		}
	}
	return out, nil
}

func newDoneCmd(flags *rootFlags, done bool) *cobra.Command {
	use, short := "done <n>", "Mark the n-th task complete"
	if !done {
		use, short = "undo <n>", "Reopen the n-th task"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("not a task number: %q", args[0])
			}
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			tasks, err := e.repo.Load()
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
			if n < 1 || n > len(tasks) {
				return fmt.Errorf("no task %d", n)
			}
			if done {
				tasks[n-1].Complete(e.clock.Today())
			} else {
				tasks[n-1].Incomplete()
			}
			if err := e.repo.Save(tasks); err != nil {
				return fmt.Errorf("failed to save tasks: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", n, tasks[n-1])
			return nil
		},
	}
}
