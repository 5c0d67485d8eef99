package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tabsolver/tabsolver/pkg/builder"
	"github.com/tabsolver/tabsolver/pkg/config"
	"github.com/tabsolver/tabsolver/pkg/logger"
	"github.com/tabsolver/tabsolver/pkg/solver"
	"github.com/tabsolver/tabsolver/pkg/table"
)

var version = "0.1.0"

// benchResult summarizes one bench run for JSON output.
type benchResult struct {
	Rows        int           `json:"rows"`
	Vars        int           `json:"vars"`
	Constrs     int           `json:"constrs"`
	VarCalls    int           `json:"var_calls"`
	ConstrCalls int           `json:"constr_calls"`
	UpdateCalls int           `json:"update_calls"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	PerRow      time.Duration `json:"per_row_ns"`
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	root := &cobra.Command{
		Use:   "tabsolver",
		Short: "tabsolver - bulk entity building for tabular optimization models",
		Long: `tabsolver maps tabular data onto named entities in an optimization solver.
It creates whole families of variables and constraints with one bulk call each,
keeping results row-aligned with the input tables.`,
	}

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tabsolver v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile string
	var rows int
	var interactive bool
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Build a synthetic model against the recording solver and report timings",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.DefaultOptions()
			if configFile != "" {
				if err := config.Load(configFile, opts); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("interactive") {
				opts.Interactive = interactive
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			if err := logger.Init(logger.Config{Level: opts.LogLevel, Encoding: opts.LogEncoding}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			result, err := runBench(cmd.Context(), rows, opts)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	benchCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML options file")
	benchCmd.Flags().IntVarP(&rows, "rows", "n", 10000, "Number of rows to build")
	benchCmd.Flags().BoolVar(&interactive, "interactive", false, "Synchronize after every creation call")
	root.AddCommand(benchCmd)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// runBench builds one variable and one constraint per row: x[i] bounded
// above by a per-row capacity column.
func runBench(ctx context.Context, rows int, opts *config.Options) (*benchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}

	capacity := make([]interface{}, rows)
	for i := 0; i < rows; i++ {
		capacity[i] = float64(i%100) + 1.0
	}
	df, err := table.NewDataFrame(table.RangeIndex(rows)).WithColumn("a", capacity)
	if err != nil {
		return nil, err
	}

	mock := solver.NewMock()
	sess := builder.NewSession(mock, builder.WithInteractive(opts.Interactive))

	start := time.Now()
	x, err := sess.AddVarsFrame(ctx, df, builder.FrameVarOptions{Name: "x", IndexFormat: mode})
	if err != nil {
		return nil, err
	}
	df, err = df.Join(x)
	if err != nil {
		return nil, err
	}
	if _, err := sess.AddConstrsExpr(ctx, df, "x <= a", builder.ConstrOptions{Name: "cap", IndexFormat: mode}); err != nil {
		return nil, err
	}
	if err := sess.Sync(ctx); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	result := &benchResult{
		Rows:        rows,
		Vars:        mock.NumVars(),
		Constrs:     mock.NumConstrs(),
		VarCalls:    mock.VarCalls(),
		ConstrCalls: mock.ConstrCalls(),
		UpdateCalls: mock.UpdateCalls(),
		Elapsed:     elapsed,
	}
	if rows > 0 {
		result.PerRow = elapsed / time.Duration(rows)
	}
	return result, nil
}
