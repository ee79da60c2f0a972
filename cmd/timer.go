package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/curaious/ticktrack/internal/config"
	"github.com/curaious/ticktrack/internal/telemetry"
	"github.com/curaious/ticktrack/internal/timer"
	"github.com/curaious/ticktrack/pkg/client"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run an interactive timer and save it as a time entry",
	Long:  "Starts the timer for --project and reads commands from stdin:\n  p  pause\n  c  continue\n  s  stop and save\n  q  quit without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.ReadConfig()
		if conf.API_TOKEN == "" {
			return errors.New("API_TOKEN is required")
		}

		projectID, _ := cmd.Flags().GetString("project")
		taskID, _ := cmd.Flags().GetString("task")
		description, _ := cmd.Flags().GetString("description")

		shutdownTelemetry := telemetry.NewProvider("ticktrack-timer", conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		sink := client.NewTimerSink(client.New(conf.API_BASE_URL, conf.API_TOKEN))
		session := timerSession{
			store:       timer.NewStore(),
			sink:        sink,
			projectID:   projectID,
			taskID:      taskID,
			description: description,
		}

		return session.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var errUnsavedEntry = errors.New("input closed before the time entry was saved")

type timerSession struct {
	store       *timer.Store
	sink        timer.EntrySink
	projectID   string
	taskID      string
	description string
}

func (t timerSession) run(ctx context.Context, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	printf := func(format string, a ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, a...)
	}

	unsubscribe := t.store.Subscribe(func(s timer.Session) {
		printf("[%s] %s\n", s.Phase, s.Elapsed())
	})
	defer unsubscribe()

	if err := t.store.Start(t.projectID, t.taskID, t.description, true); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "p":
			err = t.store.Pause()
		case "c":
			err = t.store.Continue()
		case "s":
			entry, saveErr := t.store.Reconcile(ctx, t.sink)
			if saveErr == nil {
				printf("Saved %ds from %s to %s\n", entry.DurationSeconds,
					entry.StartTime.Format("15:04:05"), entry.EndTime.Format("15:04:05"))
				return nil
			}
			err = saveErr
		case "q":
			if err = t.store.Reset(); err == nil {
				printf("Discarded timer\n")
				return nil
			}
		case "":
			continue
		default:
			printf("Unknown command, use p, c, s or q\n")
			continue
		}

		if err != nil {
			printf("Error: %v\n", err)
		}
	}

	// unsaved time is reported, never discarded
	if snap := t.store.Snapshot(); snap.Phase == timer.Stopped || snap.ElapsedSeconds > 0 {
		_ = t.store.Stop()
		return fmt.Errorf("%w: %s tracked on project %s", errUnsavedEntry, snap.Elapsed(), snap.ProjectID)
	}

	_ = t.store.Reset()
	return scanner.Err()
}

func init() {
	timerCmd.Flags().StringP("project", "p", "", "Project id to track time against")
	timerCmd.Flags().StringP("task", "t", timer.NoTask, "Optional task id")
	timerCmd.Flags().StringP("description", "d", "", "What you are working on")
	_ = timerCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(timerCmd)
}
