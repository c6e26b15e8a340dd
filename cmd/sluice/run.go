package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/internal/presentation/tui"
	"github.com/aretw0/sluice/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a recorded event log through the coordinator",
	Long: `Reads a workflow definition and a recorded engine event log, replays the
log through the coordinator, and prints the transformed stream as NDJSON.
With --text the per-terminal output is aggregated and printed as plain
text instead; --pretty renders it as markdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		graph, err := loadGraph(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		eventsPath, _ := cmd.Flags().GetString("events")
		events, err := loadEvents(eventsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		replayer, err := sluice.NewReplayer(graph, sluice.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing sluice: %v\n", err)
			os.Exit(1)
		}

		textMode, _ := cmd.Flags().GetBool("text")
		pretty, _ := cmd.Flags().GetBool("pretty")

		ctx := context.Background()

		if !textMode && !pretty {
			// Stream mode: one NDJSON line per emitted event.
			enc := json.NewEncoder(os.Stdout)
			err := replayer.ReplayStream(ctx, events, func(ev domain.Event) error {
				return enc.Encode(struct {
					Kind  domain.EventKind `json:"kind"`
					Event domain.Event     `json:"event"`
				}{ev.Kind(), ev})
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error replaying log: %v\n", err)
				os.Exit(1)
			}
			return
		}

		out, err := replayer.Replay(ctx, events)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error replaying log: %v\n", err)
			os.Exit(1)
		}

		if pretty {
			tui.PrintBanner(sluice.Version)
		}
		render := func(s string) string { return s }
		if pretty {
			r := tui.NewRenderer()
			render = func(s string) string {
				if rendered, err := r(s); err == nil {
					return rendered
				}
				return s
			}
		}

		texts := sluice.Aggregate(out)
		terminals := make([]string, 0, len(texts))
		for t := range texts {
			terminals = append(terminals, t)
		}
		sort.Strings(terminals)

		for _, t := range terminals {
			if len(terminals) > 1 {
				fmt.Printf("--- %s ---\n", t)
			}
			fmt.Println(render(texts[t]))
		}
	},
}

// loadGraph reads and compiles the definition named by the persistent
// --definition flag.
func loadGraph(cmd *cobra.Command) (*domain.Graph, error) {
	path, _ := cmd.Flags().GetString("definition")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	graph, err := sluice.ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// loadEvents reads an event log from a file, or from stdin when path is "-".
func loadEvents(path string) ([]domain.Event, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return sluice.ParseEventLog(data)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("events", "e", "-", "Event log file (\"-\" for stdin)")
	runCmd.Flags().Bool("text", false, "Print aggregated per-terminal text instead of the event stream")
	runCmd.Flags().Bool("pretty", false, "Render aggregated output as markdown (implies --text)")
}
