package app

import (
	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/window"
	"github.com/Carmen-Shannon/oxy-tree/fractal/controller"
	"github.com/chewxy/math32"
)

const (
	// dragThreshold is how far, in screen coordinates, the pointer moves with a button held before the press
	// becomes a camera drag instead of a click.
	dragThreshold float32 = 4
	// speedStep is the animation speed change per key press, in degrees per second.
	speedStep float32 = 5
)

type inputState struct {
	buttons  [3]bool
	dragging bool
	pressAt  [2]float32
	lastAt   [2]float32
}

// bindWindow routes window input into the app. Window callbacks fire on the frame thread
// while events are polled, so they act on the controller directly.
func (a *app) bindWindow(w window.Window) {
	w.SetMouseMoveCallback(a.mouseMove)
	w.SetMouseButtonCallback(a.mouseButton)
	w.SetScrollCallback(a.scroll)
	w.SetKeyDownCallback(a.keyDown)
	w.SetCursorLeaveCallback(a.cursorLeave)
	w.SetScreenSizeCallback(a.screenResize)
}

func (a *app) mouseMove(x, y float32) {
	in := &a.input
	// Cursor positions share units with the window size, not the framebuffer.
	a.ctrl.SetPointer(controller.PointerFromPixels(x, y, float32(a.screenWidth), float32(a.screenHeight)))

	held := in.buttons[common.MouseButtonLeft] || in.buttons[common.MouseButtonRight] || in.buttons[common.MouseButtonMiddle]
	if held && !in.dragging && math32.Hypot(x-in.pressAt[0], y-in.pressAt[1]) > dragThreshold {
		in.dragging = true
	}

	if in.dragging {
		dx, dy := x-in.lastAt[0], y-in.lastAt[1]
		if cc := a.ctrl.Camera().Controller(); cc != nil {
			if in.buttons[common.MouseButtonLeft] {
				cc.Rotate(dx, dy)
			} else {
				cc.PanRight(-dx)
				cc.PanUp(dy)
			}
		}
	}
	in.lastAt = [2]float32{x, y}
}

func (a *app) mouseButton(button int, pressed bool, x, y float32) {
	if button < 0 || button >= len(a.input.buttons) {
		return
	}
	in := &a.input

	if pressed {
		if !in.buttons[0] && !in.buttons[1] && !in.buttons[2] {
			in.dragging = false
			in.pressAt = [2]float32{x, y}
		}
		in.buttons[button] = true
		in.lastAt = [2]float32{x, y}
		return
	}

	in.buttons[button] = false
	if button == common.MouseButtonLeft && !in.dragging {
		a.click()
	}
	if !in.buttons[0] && !in.buttons[1] && !in.buttons[2] {
		in.dragging = false
	}
}

// click grows a branch at the hover target, if any.
func (a *app) click() {
	b, err := a.ctrl.Click()
	if err != nil {
		a.logger.Error("branch insertion failed", "error", err)
		return
	}
	if b != nil {
		a.logger.Debug("branch added by click", "branch", b.ID(), "parent", b.ParentID())
	}
}

func (a *app) scroll(delta float32) {
	if cc := a.ctrl.Camera().Controller(); cc != nil {
		cc.Zoom(delta)
	}
}

func (a *app) cursorLeave() {
	a.ctrl.ClearPointer()
}

func (a *app) keyDown(keyCode uint32) {
	cc := a.ctrl.Camera().Controller()

	switch keyCode {
	case common.KeySpace:
		if a.ctrl.Animating() {
			a.ctrl.PauseAnimation()
		} else {
			a.ctrl.StartAnimation()
		}
	case common.KeyV:
		if a.ctrl.Mode() == controller.ModeView {
			a.ctrl.PauseAnimation()
		} else {
			a.ctrl.EnterView()
		}
	case common.KeyR:
		a.ctrl.ResetView()
	case common.KeyG:
		a.generate(a.params)
	case common.KeyEqual:
		a.ctrl.SetAnimationSpeed(a.ctrl.AnimationSpeed() + speedStep)
	case common.KeyMinus:
		a.ctrl.SetAnimationSpeed(a.ctrl.AnimationSpeed() - speedStep)
	}

	if cc == nil {
		return
	}
	switch keyCode {
	case common.KeyLeft, common.KeyA:
		cc.OrbitLeft()
	case common.KeyRight, common.KeyD:
		cc.OrbitRight()
	case common.KeyUp:
		cc.OrbitUp()
	case common.KeyDown:
		cc.OrbitDown()
	case common.KeyW:
		cc.Zoom(1)
	case common.KeyS:
		cc.Zoom(-1)
	}
}
