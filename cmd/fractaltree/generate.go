package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/chewxy/math32"
	"github.com/spf13/cobra"
)

func generateCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a tree without a window and print its branches",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := []generator.GeneratorBuilderOption{
				generator.WithRootLength(cfg.Tree.RootLength),
				generator.WithRootRadius(cfg.Tree.RootRadius),
				generator.WithLogger(logger),
			}
			if cfg.Tree.Seed != 0 {
				opts = append(opts, generator.WithSeed(cfg.Tree.Seed))
			}
			tree, err := generator.NewGenerator(opts...).Generate(node.NewNode(node.WithName("scene")), generator.Params{
				MaxDepth:    cfg.Tree.MaxDepth,
				MinBranches: cfg.Tree.MinBranches,
				MaxBranches: cfg.Tree.MaxBranches,
			})
			if err != nil {
				return err
			}
			return printTree(cmd.OutOrStdout(), tree)
		},
	}
	return cmd
}

// printTree writes one indented line per branch in pre-order, followed by a summary line.
// Angles are printed in degrees.
func printTree(w io.Writer, tree *branch.Tree) error {
	var err error
	tree.Walk(func(b *branch.Branch) bool {
		_, err = fmt.Fprintf(w, "%s#%d depth=%d length=%.3f radius=%.4f longitude=%.3f divergence=%.1f azimuth=%.1f\n",
			strings.Repeat("  ", b.DepthLevel()),
			b.ID(),
			b.DepthLevel(),
			b.Length(),
			b.Radius(),
			b.Longitude(),
			degrees(b.DivergenceAngle()),
			degrees(b.Azimuth()),
		)
		return err == nil
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "branches=%d depth=%d\n", tree.Len(), tree.Depth())
	return err
}

func degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}
