package inserter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/Carmen-Shannon/oxy-tree/fractal/picker"
)

// DefaultDivergenceAngle is the tilt given to inserted branches, -60°.
const DefaultDivergenceAngle = -generator.DefaultDivergenceAngle

// ErrNilTree is returned when an insertion is attempted without a tree.
var ErrNilTree = errors.New("inserter: nil tree")

type inserter struct {
	mu *sync.Mutex

	divergence float32
	logger     *slog.Logger
}

// Inserter grows a new branch from the point currently hovered on an existing one.
type Inserter interface {
	// Insert adds a child to the hovered branch, attached at the hover point's longitude and
	// turned to its azimuth, then materializes it under the hovered branch's visual.
	// The child is a third as long and half as thick as its parent. No depth limit applies.
	// A nil hover is a no-op.
	//
	// Parameters:
	//   - tree: the tree to grow
	//   - hover: the hover target, may be nil
	//
	// Returns:
	//   - *branch.Branch: the new branch, nil for a no-op
	//   - error: ErrNilTree, or a lookup or materialization error
	Insert(tree *branch.Tree, hover *picker.Hover) (*branch.Branch, error)
}

var _ Inserter = &inserter{}

// NewInserter creates an Inserter.
//
// Parameters:
//   - options: variadic list of InserterBuilderOption functions
//
// Returns:
//   - Inserter: the new inserter
func NewInserter(options ...InserterBuilderOption) Inserter {
	i := &inserter{
		mu:         &sync.Mutex{},
		divergence: DefaultDivergenceAngle,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(i)
	}
	return i
}

func (i *inserter) Insert(tree *branch.Tree, hover *picker.Hover) (*branch.Branch, error) {
	if hover == nil {
		return nil, nil
	}
	if tree == nil {
		return nil, ErrNilTree
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	pick, err := picker.ResolveBranch(tree, hover.Branch, hover.Point)
	if err != nil {
		return nil, fmt.Errorf("insert branch: %w", err)
	}
	parent, _ := tree.Branch(pick.Branch)

	child, err := tree.AddChild(parent.ID(),
		parent.Length()*generator.LengthRatio,
		parent.Radius()*generator.RadiusRatio,
		pick.Longitude,
		i.divergence,
	)
	if err != nil {
		return nil, fmt.Errorf("insert branch: %w", err)
	}
	if _, err := tree.Materialize(child.ID(), pick.Azimuth); err != nil {
		return nil, fmt.Errorf("insert branch: %w", err)
	}

	i.logger.Info("branch inserted",
		"branch", child.ID(),
		"parent", parent.ID(),
		"depth", child.DepthLevel(),
		"longitude", pick.Longitude,
		"azimuth", pick.Azimuth,
	)
	return child, nil
}
