package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"homekeep/internal/core"
	"homekeep/internal/services"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage maintenance tasks",
	}
	cmd.AddCommand(
		taskAddCmd(),
		taskListCmd(),
		taskUpcomingCmd(),
		taskOverdueCmd(),
		taskCompleteCmd(),
		taskArchiveCmd(),
		taskUnarchiveCmd(),
		taskDeleteCmd(),
		taskNoteCmd(),
		taskScheduleCmd(),
		taskUnscheduleCmd(),
		taskRemindCmd(),
		taskUnremindCmd(),
	)
	return cmd
}

func taskAddCmd() *cobra.Command {
	var (
		description, due, priority, appliance, pro, cost, link string
		every                                                  int
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a maintenance task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if every < 0 {
				return core.ErrInvalidInterval
			}
			dueDate, err := core.ParseDate(due)
			if err != nil {
				return fmt.Errorf("due date %q: expected YYYY-MM-DD", due)
			}
			p, err := core.ParsePriority(priority)
			if err != nil {
				return err
			}
			t := core.MaintenanceTask{
				Title:             args[0],
				Description:       description,
				DueDate:           dueDate,
				Priority:          p,
				ApplianceID:       appliance,
				TrustedProID:      pro,
				Recurring:         every > 0,
				RecurringInterval: every,
				ProductLink:       link,
			}
			if cost != "" {
				m, err := parseMoney(cost)
				if err != nil {
					return err
				}
				t.EstimatedCost = &m
			}
			if err := t.Validate(); err != nil {
				return err
			}
			if appliance != "" {
				if _, ok := session.Store.Appliance(appliance); !ok {
					return notFound("appliance", appliance)
				}
			}
			if pro != "" {
				if _, ok := session.Store.TrustedPro(pro); !ok {
					return notFound("pro", pro)
				}
			}
			id, err := session.Store.AddTask(t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&description, "description", "d", "", "description")
	f.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	f.StringVarP(&priority, "priority", "p", string(core.PriorityMedium), "priority (low, medium, high)")
	f.StringVar(&appliance, "appliance", "", "appliance id")
	f.StringVar(&pro, "pro", "", "trusted pro id")
	f.StringVar(&cost, "cost", "", "estimated cost")
	f.StringVar(&link, "link", "", "product link")
	f.IntVar(&every, "every", 0, "repeat every N days after completion")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func taskListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := session.Store.Tasks()
			if status != "" {
				s, err := core.ParseTaskStatus(status)
				if err != nil {
					return err
				}
				filtered := tasks[:0]
				for _, t := range tasks {
					if t.Status == s {
						filtered = append(filtered, t)
					}
				}
				tasks = filtered
			}
			return printTasks(cmd.OutOrStdout(), tasks)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks with this status (upcoming, completed, archived)")
	return cmd
}

func taskUpcomingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "List upcoming tasks due today or later",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTasks(cmd.OutOrStdout(), session.Store.UpcomingTasks())
		},
	}
}

func taskOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List upcoming tasks past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTasks(cmd.OutOrStdout(), session.Store.OverdueTasks())
		},
	}
}

func taskCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a task; recurring tasks schedule their next occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nextID, ok := session.Store.CompleteTask(args[0])
			if !ok {
				return fmt.Errorf("task %s not found or not upcoming", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "task completed")
			if nextID != "" {
				next, _ := session.Store.Task(nextID)
				fmt.Fprintf(out, "next occurrence %s due %s\n", nextID, next.DueDate)
			}
			return nil
		},
	}
}

func taskArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.ArchiveTask(args[0]) {
				return notFound("task", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "task archived")
			return nil
		},
	}
}

func taskUnarchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive <id>",
		Short: "Return an archived task to upcoming",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.UnarchiveTask(args[0]) {
				return fmt.Errorf("task %s not found or not archived", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "task restored")
			return nil
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.DeleteTask(args[0]) {
				return notFound("task", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "task deleted")
			return nil
		},
	}
}

func taskNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Append a note to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.AddTaskNote(args[0], args[1]) {
				return notFound("task", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "note added")
			return nil
		},
	}
}

func calendarService() (*services.CalendarService, error) {
	if session.Publisher == nil {
		return nil, errors.New("calendar integration needs AMQP_URL to be configured")
	}
	cal := services.NewQueuedCalendar(session.Publisher)
	return services.NewCalendarService(session.Store, cal, cal, session.Logger.Logger), nil
}

func taskScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Add a task to the calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := calendarService()
			if err != nil {
				return err
			}
			eventID, err := svc.ScheduleTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), eventID)
			return nil
		},
	}
}

func taskUnscheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule <id>",
		Short: "Remove a task's calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := calendarService()
			if err != nil {
				return err
			}
			return svc.UnscheduleTask(cmd.Context(), args[0])
		},
	}
}

func taskRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind <id>",
		Short: "Create a reminder for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := calendarService()
			if err != nil {
				return err
			}
			reminderID, err := svc.AddReminder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reminderID)
			return nil
		},
	}
}

func taskUnremindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unremind <id>",
		Short: "Remove a task's reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := calendarService()
			if err != nil {
				return err
			}
			return svc.RemoveReminder(cmd.Context(), args[0])
		},
	}
}

func printTasks(w io.Writer, tasks []core.MaintenanceTask) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tPRIORITY\tSTATUS\tREPEATS\tEST. COST")
	for _, t := range tasks {
		repeats := "-"
		if t.HasValidRecurrence() {
			repeats = fmt.Sprintf("every %dd", t.RecurringInterval)
		}
		cost := "-"
		if t.EstimatedCost != nil {
			cost = formatMoney(*t.EstimatedCost)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.DueDate, t.Priority, t.Status, repeats, cost)
	}
	return tw.Flush()
}
