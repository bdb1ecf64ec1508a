package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cogentcore.org/core/base/randx"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/chewxy/math32"
)

const (
	// DefaultRootLength is the length of the root branch.
	DefaultRootLength float32 = 40
	// DefaultRootRadius is the base radius of the root branch.
	DefaultRootRadius float32 = 0.75
	// DefaultDivergenceAngle is the magnitude of the tilt between a child and its parent, 60°.
	DefaultDivergenceAngle = 60 * math32.Pi / 180
	// LengthRatio is a child's length relative to its parent.
	LengthRatio float32 = 1.0 / 3.0
	// RadiusRatio is a child's radius relative to its parent.
	RadiusRatio float32 = 0.5
)

// ErrInvalidParams is returned when generation parameters are out of range.
var ErrInvalidParams = errors.New("generator: invalid parameters")

// Params controls the shape of a generated tree.
type Params struct {
	// MaxDepth is the number of depth levels, root included. 1 produces the root alone.
	MaxDepth int
	// MinBranches is the smallest number of children a non-leaf branch gets.
	MinBranches int
	// MaxBranches is the largest number of children a non-leaf branch gets.
	MaxBranches int
}

// Validate checks that MaxDepth >= 1 and 1 <= MinBranches <= MaxBranches.
//
// Returns:
//   - error: ErrInvalidParams wrapped with the offending values, nil if valid
func (p Params) Validate() error {
	switch {
	case p.MaxDepth < 1:
		return fmt.Errorf("max depth %d must be at least 1: %w", p.MaxDepth, ErrInvalidParams)
	case p.MinBranches < 1:
		return fmt.Errorf("min branches %d must be at least 1: %w", p.MinBranches, ErrInvalidParams)
	case p.MinBranches > p.MaxBranches:
		return fmt.Errorf("min branches %d exceeds max branches %d: %w", p.MinBranches, p.MaxBranches, ErrInvalidParams)
	}
	return nil
}

type generator struct {
	mu *sync.Mutex

	rng        randx.Rand
	rootLength float32
	rootRadius float32
	divergence float32
	logger     *slog.Logger
}

// Generator builds random trees and materializes them into a scene.
type Generator interface {
	// Generate builds a new tree and attaches its visuals under sceneRoot.
	// Every non-leaf branch at depth d < MaxDepth-1 gets between MinBranches and
	// MaxBranches children spread evenly along its length, alternating their tilt side.
	// Each visual is placed at a uniformly random azimuth.
	//
	// Parameters:
	//   - sceneRoot: the node the tree hangs from
	//   - params: the shape parameters
	//
	// Returns:
	//   - *branch.Tree: the new, fully materialized tree
	//   - error: ErrInvalidParams, or a materialization error
	Generate(sceneRoot node.Node, params Params) (*branch.Tree, error)

	// DivergenceAngle returns the tilt magnitude used for generated children, in radians.
	DivergenceAngle() float32

	// RootLength returns the length used for the root branch.
	RootLength() float32
}

var _ Generator = &generator{}

// NewGenerator creates a Generator. Without WithRand or WithSeed it draws from a
// generator seeded with the current time.
//
// Parameters:
//   - options: variadic list of GeneratorBuilderOption functions
//
// Returns:
//   - Generator: the new generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generator{
		mu:         &sync.Mutex{},
		rootLength: DefaultRootLength,
		rootRadius: DefaultRootRadius,
		divergence: DefaultDivergenceAngle,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(g)
	}
	if g.rng == nil {
		g.rng = randx.NewSysRand(time.Now().UnixNano())
	}
	return g
}

func (g *generator) DivergenceAngle() float32 {
	return g.divergence
}

func (g *generator) RootLength() float32 {
	return g.rootLength
}

func (g *generator) Generate(sceneRoot node.Node, params Params) (*branch.Tree, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if sceneRoot == nil {
		return nil, branch.ErrNilSceneRoot
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	tree := branch.NewTree(g.rootLength, g.rootRadius)
	if err := g.addBranches(tree, tree.Root(), params); err != nil {
		return nil, err
	}

	var err error
	tree.Walk(func(b *branch.Branch) bool {
		azimuth := g.uniform() * 2 * math32.Pi
		if b.IsRoot() {
			_, err = tree.MaterializeRoot(sceneRoot, azimuth)
		} else {
			_, err = tree.Materialize(b.ID(), azimuth)
		}
		return err == nil
	})
	if err != nil {
		tree.Detach()
		return nil, fmt.Errorf("materialize generated tree: %w", err)
	}

	g.logger.Info("tree generated",
		"max_depth", params.MaxDepth,
		"min_branches", params.MinBranches,
		"max_branches", params.MaxBranches,
		"branches", tree.Len(),
		"depth", tree.Depth(),
	)
	return tree, nil
}

// addBranches grows the subtree under parent depth first.
func (g *generator) addBranches(tree *branch.Tree, parent *branch.Branch, params Params) error {
	if parent.DepthLevel() >= params.MaxDepth-1 {
		return nil
	}

	spread := float32(params.MaxBranches - params.MinBranches)
	count := int(math32.Round(g.uniform()*spread + float32(params.MinBranches)))
	step := parent.Length() / float32(count+1)

	angle := g.divergence
	if g.uniform() > 0.5 {
		angle = -angle
	}

	for i := 1; i <= count; i++ {
		child, err := tree.AddChild(parent.ID(),
			parent.Length()*LengthRatio,
			parent.Radius()*RadiusRatio,
			float32(i)*step,
			angle,
		)
		if err != nil {
			return err
		}
		angle = -angle

		if err := g.addBranches(tree, child, params); err != nil {
			return err
		}
	}
	return nil
}

// uniform returns a sample in [0, 1).
func (g *generator) uniform() float32 {
	u := float32(g.rng.Float64())
	if u >= 1 {
		// float64 samples just below 1 can round up in float32.
		u = math32.Nextafter(1, 0)
	}
	return u
}
