package controller

// Mode is the interaction state of a Controller.
type Mode int

const (
	// ModeView leaves the tree untouched; only the camera responds to input.
	ModeView Mode = iota
	// ModeAddBranch tracks the branch under the pointer and grows a new branch on click.
	ModeAddBranch
	// ModeAnimate spins every branch about its own axis each frame.
	ModeAnimate
)

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "view"
	case ModeAddBranch:
		return "add-branch"
	case ModeAnimate:
		return "animate"
	default:
		return "unknown"
	}
}
