package light

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func TestDefaults(t *testing.T) {
	l := NewLight()
	assert.InDelta(t, 1, common.Length3(l.Direction()), tol)
	assert.Less(t, l.Direction()[1], float32(0))
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.Equal(t, float32(0.35), l.Ambient())
	assert.True(t, l.Enabled())
}

func TestOptions(t *testing.T) {
	l := NewLight(
		WithDirection(0, -2, 0),
		WithColor(1, 0.5, 0.25),
		WithIntensity(-3),
		WithAmbient(2),
		WithEnabled(false),
	)
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
	assert.Equal(t, [3]float32{1, 0.5, 0.25}, l.Color())
	assert.Zero(t, l.Intensity())
	assert.Equal(t, float32(1), l.Ambient())
	assert.False(t, l.Enabled())

	before := NewLight().Direction()
	assert.Equal(t, before, NewLight(WithDirection(0, 0, 0)).Direction())
}

func TestSetters(t *testing.T) {
	l := NewLight()
	l.SetDirection(3, 0, 4)
	assert.InDelta(t, 0.6, l.Direction()[0], tol)
	assert.InDelta(t, 0.8, l.Direction()[2], tol)
	l.SetDirection(0, 0, 0)
	assert.InDelta(t, 0.6, l.Direction()[0], tol)

	l.SetAmbient(-1)
	assert.Zero(t, l.Ambient())
	l.SetIntensity(2)
	l.SetColor(0.5, 0.5, 0.5)
	l.SetEnabled(false)
	assert.False(t, l.Enabled())
}

func TestToGPU(t *testing.T) {
	assert.Equal(t, uintptr(32), unsafe.Sizeof(GPULight{}))

	l := NewLight(WithDirection(0, -1, 0), WithColor(1, 0.5, 0), WithIntensity(2), WithAmbient(0.2))
	g := ToGPU(l)
	assert.Equal(t, [4]float32{0, -1, 0, 0.2}, g.Direction)
	assert.Equal(t, [4]float32{2, 1, 0, 1}, g.Color)

	l.SetEnabled(false)
	g = ToGPU(l)
	assert.Equal(t, [4]float32{}, g.Color)
	assert.Equal(t, float32(0.2), g.Direction[3])
}
