package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

const shortIDLen = 8

// NewAddCommand creates the add command
func NewAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, due, err := taskFlags(cmd)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				task, err := a.service.Add(ctx, ports.CreateTaskRequest{
					Text:     strings.Join(args, " "),
					Priority: priority,
					DueDate:  due,
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(task.ID), task.Text)
				return nil
			})
		},
	}

	cmd.Flags().StringP("priority", "p", string(entities.DefaultPriority), "Priority (low, medium, high)")
	cmd.Flags().StringP("due", "d", "", "Due date (YYYY-MM-DD)")
	return cmd
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long:    "List live tasks, starred first, then by priority, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filterFlag, _ := cmd.Flags().GetString("filter")
			search, _ := cmd.Flags().GetString("search")

			filter, err := entities.ParseFilter(filterFlag)
			if err != nil {
				return fmt.Errorf("%w: %q", err, filterFlag)
			}
			search = strings.TrimSpace(search)

			return withApp(cmd, func(ctx context.Context, a *app) error {
				printTasks(cmd.OutOrStdout(), filter, search, a.service.View(ctx, filter, search), time.Now())
				return nil
			})
		},
	}

	cmd.Flags().StringP("filter", "f", string(entities.FilterAll), "Filter (all, active, completed, starred)")
	cmd.Flags().StringP("search", "s", "", "Only tasks whose text contains this, case-insensitively")
	return cmd
}

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Edit the text, priority and due date of a task",
		Long:  "Replace the text of a task. Priority is kept unless --priority is given; the due date is cleared unless --due is given.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, due, err := taskFlags(cmd)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				task, err := resolveTask(a.service.Tasks(ctx), args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("priority") {
					priority = task.Priority
				}

				if _, err := a.service.Update(ctx, task.ID, ports.UpdateTaskRequest{
					Text:     strings.Join(args[1:], " "),
					Priority: priority,
					DueDate:  due,
				}); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", shortID(task.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringP("priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringP("due", "d", "", "Due date (YYYY-MM-DD)")
	return cmd
}

// NewDoneCommand creates the done command
func NewDoneCommand() *cobra.Command {
	return idCommand("done ID", "Toggle the completed flag of a task", func(ctx context.Context, a *app, t entities.Task) string {
		a.service.ToggleComplete(ctx, t.ID)
		if t.Completed {
			return "Reopened"
		}
		return "Completed"
	})
}

// NewStarCommand creates the star command
func NewStarCommand() *cobra.Command {
	return idCommand("star ID", "Toggle the starred flag of a task", func(ctx context.Context, a *app, t entities.Task) string {
		a.service.ToggleStar(ctx, t.ID)
		if t.Starred {
			return "Unstarred"
		}
		return "Starred"
	})
}

// NewArchiveCommand creates the archive command
func NewArchiveCommand() *cobra.Command {
	return idCommand("archive ID", "Hide a task from every list while keeping it stored", func(ctx context.Context, a *app, t entities.Task) string {
		if !a.service.Archive(ctx, t.ID) {
			return "Already archived"
		}
		return "Archived"
	})
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := idCommand("delete ID", "Delete a task permanently", func(ctx context.Context, a *app, t entities.Task) string {
		a.service.Delete(ctx, t.ID)
		return "Deleted"
	})
	cmd.Aliases = []string{"rm"}
	return cmd
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				st := a.service.Stats(ctx)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total:     %d\n", st.Total)
				fmt.Fprintf(out, "Active:    %d\n", st.Active)
				fmt.Fprintf(out, "Completed: %d\n", st.Completed)
				fmt.Fprintf(out, "Starred:   %d\n", st.Starred)
				fmt.Fprintf(out, "Progress:  %d%%\n", st.CompletionRate)
				return nil
			})
		},
	}
}

// idCommand builds a command that applies one action to a single task
func idCommand(use, short string, action func(ctx context.Context, a *app, t entities.Task) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				task, err := resolveTask(a.service.Tasks(ctx), args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", action(ctx, a, task), shortID(task.ID), task.Text)
				return nil
			})
		},
	}
}

func taskFlags(cmd *cobra.Command) (entities.Priority, *entities.Date, error) {
	p, _ := cmd.Flags().GetString("priority")
	d, _ := cmd.Flags().GetString("due")

	priority, err := entities.ParsePriority(p)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", err, p)
	}
	due, err := entities.ParseOptionalDate(d)
	if err != nil {
		return "", nil, err
	}
	return priority, due, nil
}

// resolveTask finds a task by full id or by a unique id prefix
func resolveTask(tasks []entities.Task, ref string) (entities.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return entities.Task{}, errors.New("task id must not be empty")
	}

	var matches []entities.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return entities.Task{}, fmt.Errorf("no task with id %q", ref)
	case 1:
		return matches[0], nil
	default:
		return entities.Task{}, fmt.Errorf("id %q is ambiguous: %d tasks match", ref, len(matches))
	}
}

func printTasks(out io.Writer, filter entities.Filter, search string, tasks []entities.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		if search != "" {
			fmt.Fprintln(out, "Try adjusting your search")
		} else {
			fmt.Fprintln(out, "Create your first task to get started")
		}
		return
	}

	fmt.Fprintf(out, "%s (%d)\n", filter.Label(), len(tasks))
	for i := range tasks {
		fmt.Fprintln(out, formatTask(&tasks[i], now))
	}
}

func formatTask(t *entities.Task, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	star := " "
	if t.Starred {
		star = "*"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %-*s  %-6s  %s", check, star, shortIDLen, shortID(t.ID), t.Priority, t.Text)
	if t.DueDate != nil {
		fmt.Fprintf(&b, "  (due %s)", t.DueDate)
		if t.IsOverdue(now) {
			b.WriteString(" OVERDUE")
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
