package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// consoleTarget is the part of app.App the console drives.
type consoleTarget interface {
	GenerateTree(maxDepth, minBranches, maxBranches int) error
	ResetView()
	StartAnimation()
	PauseAnimation()
	SetAnimationSpeed(degreesPerSecond float32)
	IsAnimating() bool
	Quit()
}

const consoleHelp = `commands:
  generate DEPTH MIN MAX  build a new tree
  start                   start the sway animation
  pause                   pause the sway animation
  speed DEGREES           set the animation speed in degrees per second
  reset                   reset the camera
  status                  show whether the tree is animating
  quit                    close the window
`

// runConsole reads one command per line from r until quit or end of input.
// Malformed commands are reported on w and do not stop the console.
func runConsole(r io.Reader, w io.Writer, target consoleTarget) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		quit, err := execCommand(strings.Fields(scanner.Text()), w, target)
		if err != nil {
			fmt.Fprintln(w, err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// execCommand runs a single tokenized command.
//
// Returns:
//   - bool: true if the console should stop
//   - error: a usage or validation error
func execCommand(fields []string, w io.Writer, target consoleTarget) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "generate", "gen":
		if len(fields) != 4 {
			return false, usageError("generate DEPTH MIN MAX")
		}
		var vals [3]int
		for i, s := range fields[1:] {
			v, err := strconv.Atoi(s)
			if err != nil {
				return false, usageError("generate DEPTH MIN MAX: %q is not an integer", s)
			}
			vals[i] = v
		}
		return false, target.GenerateTree(vals[0], vals[1], vals[2])
	case "start":
		target.StartAnimation()
	case "pause", "stop":
		target.PauseAnimation()
	case "speed":
		if len(fields) != 2 {
			return false, usageError("speed DEGREES")
		}
		v, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return false, usageError("speed DEGREES: %q is not a number", fields[1])
		}
		target.SetAnimationSpeed(float32(v))
	case "reset":
		target.ResetView()
	case "status":
		fmt.Fprintf(w, "animating=%t\n", target.IsAnimating())
	case "help", "?":
		fmt.Fprint(w, consoleHelp)
	case "quit", "exit":
		target.Quit()
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return false, nil
}

// usageError reports a malformed console command.
func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
