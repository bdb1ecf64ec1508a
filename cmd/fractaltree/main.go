// Command fractaltree opens an interactive procedural tree viewer.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-tree/config"
	"github.com/Carmen-Shannon/oxy-tree/fractal/app"
	"github.com/spf13/cobra"
)

// flags holds the command-line overrides applied on top of the config file.
type flags struct {
	configPath string
	surface    string
	depth      int
	minBranch  int
	maxBranch  int
	speed      float32
	seed       int64
	console    bool
}

func mainCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "fractaltree",
		Short: "Interactive procedural branch tree",
		Long: `fractaltree - interactive procedural branch tree

Controls:
  Click        - Grow a branch where the marker is
  Left drag    - Orbit the camera
  Right drag   - Pan
  Scroll, W/S  - Zoom
  Arrows, A/D  - Orbit
  Space        - Start/pause the sway animation
  +/-          - Change animation speed
  V            - Toggle view-only mode
  G            - Generate a new tree
  R            - Reset view
  Esc          - Quit`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true
			return runInteractive(cmd, f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.configPath, "config", "fractaltree.toml", "Path to a TOML config file; missing files use defaults")
	cmd.PersistentFlags().IntVar(&f.depth, "depth", 0, "Maximum tree depth, root included")
	cmd.PersistentFlags().IntVar(&f.minBranch, "min", 0, "Fewest children per branch")
	cmd.PersistentFlags().IntVar(&f.maxBranch, "max", 0, "Most children per branch")
	cmd.PersistentFlags().Int64Var(&f.seed, "seed", 0, "Random seed, 0 seeds from the clock")
	cmd.Flags().StringVar(&f.surface, "surface", "fractaltree", "Surface id, shown as the window title")
	cmd.Flags().Float32Var(&f.speed, "speed", 0, "Animation speed in degrees per second")
	cmd.Flags().BoolVar(&f.console, "console", true, "Read commands from stdin while the window is open")

	cmd.AddCommand(generateCmd(f))
	return cmd
}

// loadConfig reads the config file and applies every flag the user set explicitly.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("depth") {
		cfg.Tree.MaxDepth = f.depth
	}
	if changed("min") {
		cfg.Tree.MinBranches = f.minBranch
	}
	if changed("max") {
		cfg.Tree.MaxBranches = f.maxBranch
	}
	if changed("seed") {
		cfg.Tree.Seed = f.seed
	}
	if changed("speed") {
		speed := f.speed
		cfg.Animation.Speed = &speed
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a, err := app.Initialize(cfg, f.surface, app.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		a.Quit()
	}()

	if f.console {
		go func() {
			if err := runConsole(cmd.InOrStdin(), cmd.OutOrStdout(), a); err != nil {
				logger.Warn("console stopped", "error", err)
			}
		}()
	}

	a.Run()
	return nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
