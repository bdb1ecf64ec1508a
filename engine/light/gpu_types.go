package light

// GPULightSource is the WGSL definition of the Light struct. Matches GPULight exactly.
const GPULightSource = `
struct Light {
    direction: vec4<f32>,
    color: vec4<f32>,
};
`

// GPULight is the GPU-aligned representation of the light.
// Size: 32 bytes.
type GPULight struct {
	Direction [4]float32 // offset  0: normalized travel direction, w = ambient fraction
	Color     [4]float32 // offset 16: RGB color premultiplied by intensity, zero when disabled
}

// ToGPU packs l for upload.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - GPULight: the packed light
func ToGPU(l Light) GPULight {
	d := l.Direction()
	g := GPULight{Direction: [4]float32{d[0], d[1], d[2], l.Ambient()}}
	if l.Enabled() {
		c, k := l.Color(), l.Intensity()
		g.Color = [4]float32{c[0] * k, c[1] * k, c[2] * k, 1}
	}
	return g
}
