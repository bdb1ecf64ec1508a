package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraPose is the subset of controller state that SaveState records and Reset restores.
type cameraPose struct {
	target    [3]float32
	radius    float32
	azimuth   float32
	elevation float32
}

// cameraControllerImpl is the single implementation of CameraController.
// Supports orbit, planar and reset controls simultaneously. Orbit methods modify
// spherical coordinates and recompute position; planar methods translate both
// position and target along local camera axes, preserving the orbit relationship.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis, 0 = +Z
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// Orbit speed settings
	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32

	// Planar speed
	panSpeed float32

	// Explicit starting position, applied after options when set
	initialPosition *[3]float32

	// Reset state
	saved     cameraPose
	resetEase ease.TweenFunc
	tweens    [6]*gween.Tween // target x, y, z, radius, azimuth, elevation
	resetting bool
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults.
// The pose at construction time is saved as the reset pose.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, 0},

		radius:    30.0,
		azimuth:   0.0,
		elevation: math32.Pi / 6,

		minRadius:    1.0,
		maxRadius:    500.0,
		minElevation: -math32.Pi/2 + 0.05,
		maxElevation: math32.Pi/2 - 0.05,

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        1.0,

		panSpeed: 0.05,

		resetEase: ease.OutCubic,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.initialPosition != nil {
		cc.fromPosition(*cc.initialPosition)
	} else {
		cc.updatePosition()
	}
	cc.saved = cc.pose()
	return cc
}

// NewOrbitController creates a new camera controller configured for orbit-style control.
// This is a convenience wrapper around NewCameraController.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	return NewCameraController(options...)
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

// fromPosition places the camera at p and derives the spherical coordinates from the
// offset to the target. Caller must hold the mutex.
func (cc *cameraControllerImpl) fromPosition(p [3]float32) {
	dx := p[0] - cc.target[0]
	dy := p[1] - cc.target[1]
	dz := p[2] - cc.target[2]
	r := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if r < 1e-6 {
		return
	}
	cc.radius = r
	cc.elevation = math32.Asin(dy / r)
	cc.azimuth = math32.Atan2(dx, dz)
	cc.position = p
}

// clampRadius keeps the radius inside the configured bounds. Caller must hold the mutex.
func (cc *cameraControllerImpl) clampRadius() {
	cc.radius = min(max(cc.radius, cc.minRadius), cc.maxRadius)
}

// clampElevation keeps the elevation inside the configured bounds. Caller must hold the mutex.
func (cc *cameraControllerImpl) clampElevation() {
	cc.elevation = min(max(cc.elevation, cc.minElevation), cc.maxElevation)
}

// cancelReset stops any reset animation so direct input wins. Caller must hold the mutex.
func (cc *cameraControllerImpl) cancelReset() {
	cc.resetting = false
	cc.tweens = [6]*gween.Tween{}
}

func (cc *cameraControllerImpl) pose() cameraPose {
	return cameraPose{target: cc.target, radius: cc.radius, azimuth: cc.azimuth, elevation: cc.elevation}
}

func (cc *cameraControllerImpl) applyPose(p cameraPose) {
	cc.target = p.target
	cc.radius = p.radius
	cc.azimuth = p.azimuth
	cc.elevation = p.elevation
	cc.updatePosition()
}

// localAxes computes the camera's local coordinate axes consistent with the LookAt matrix.
// Returns right (rx,ry,rz), up (ux,uy,uz), and forward (fx,fy,fz) vectors.
// If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (rx, ry, rz, ux, uy, uz, fx, fy, fz float32) {
	// backward = normalize(position - target), matching LookAt's z-axis
	bx := cc.position[0] - cc.target[0]
	by := cc.position[1] - cc.target[1]
	bz := cc.position[2] - cc.target[2]
	bLen := math32.Sqrt(bx*bx + by*by + bz*bz)
	if bLen < 1e-8 {
		return
	}
	bx /= bLen
	by /= bLen
	bz /= bLen

	// right = normalize(cross(worldUp, backward)) where worldUp = (0, 1, 0)
	rx = bz
	rz = -bx
	rLen := math32.Sqrt(rx*rx + rz*rz)
	if rLen < 1e-8 {
		return
	}
	rx /= rLen
	rz /= rLen

	// up = cross(backward, right), matching LookAt's y-axis
	ux = by*rz - bz*ry
	uy = bz*rx - bx*rz
	uz = bx*ry - by*rx

	fx = -bx
	fy = -by
	fz = -bz
	return
}

// translate shifts position and target together. Caller must hold the mutex.
func (cc *cameraControllerImpl) translate(x, y, z, amount float32) {
	offset := amount * cc.panSpeed
	cc.target[0] += x * offset
	cc.target[1] += y * offset
	cc.target[2] += z * offset
	cc.position[0] += x * offset
	cc.position[1] += y * offset
	cc.position[2] += z * offset
}

// wrapAngle maps a to the range (-π, π].
func wrapAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, 2*math32.Pi)
	if a <= 0 {
		a += 2 * math32.Pi
	}
	return a - math32.Pi
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.fromPosition([3]float32{x, y, z})
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.target = [3]float32{x, y, z}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.radius -= delta * cc.zoomSpeed
	cc.clampRadius()
	cc.updatePosition()
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.azimuth -= cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.azimuth += cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.elevation += cc.orbitSpeed
	cc.clampElevation()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.elevation -= cc.orbitSpeed
	cc.clampElevation()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.azimuth -= dx * cc.mouseSensitivity
	cc.elevation += dy * cc.mouseSensitivity
	cc.clampElevation()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.radius = radius
	cc.clampRadius()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) OrbitSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbitSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	rx, ry, rz, _, _, _, _, _, _ := cc.localAxes()
	cc.translate(rx, ry, rz, delta)
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()
	_, _, _, ux, uy, uz, _, _, _ := cc.localAxes()
	cc.translate(ux, uy, uz, delta)
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

// --- resettableCameraController implementation ---

func (cc *cameraControllerImpl) SaveState() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.saved = cc.pose()
}

func (cc *cameraControllerImpl) Reset(duration float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cancelReset()

	if duration <= 0 {
		cc.applyPose(cc.saved)
		return
	}

	// Take the short way around rather than unwinding accumulated orbit turns.
	azimuthEnd := cc.azimuth + wrapAngle(cc.saved.azimuth-cc.azimuth)

	cc.tweens = [6]*gween.Tween{
		gween.New(cc.target[0], cc.saved.target[0], duration, cc.resetEase),
		gween.New(cc.target[1], cc.saved.target[1], duration, cc.resetEase),
		gween.New(cc.target[2], cc.saved.target[2], duration, cc.resetEase),
		gween.New(cc.radius, cc.saved.radius, duration, cc.resetEase),
		gween.New(cc.azimuth, azimuthEnd, duration, cc.resetEase),
		gween.New(cc.elevation, cc.saved.elevation, duration, cc.resetEase),
	}
	cc.resetting = true
}

func (cc *cameraControllerImpl) Resetting() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.resetting
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.resetting {
		return
	}

	var values [6]float32
	done := true
	for i, tw := range cc.tweens {
		v, finished := tw.Update(dt)
		values[i] = v
		done = done && finished
	}

	cc.target = [3]float32{values[0], values[1], values[2]}
	cc.radius = values[3]
	cc.azimuth = values[4]
	cc.elevation = values[5]
	cc.updatePosition()

	if done {
		// Land exactly on the saved pose so the stored azimuth is not left a full turn away.
		cc.applyPose(cc.saved)
		cc.cancelReset()
	}
}
