package renderer

import "github.com/Carmen-Shannon/oxy-tree/engine/light"

// meshShader draws instanced meshes with a single directional light and an ambient term.
// Normals are divided by the squared per-axis instance scale, which equals the
// inverse transpose for rotation-times-scale model matrices.
var meshShader = light.GPULightSource + `
struct Uniforms {
    view_proj: mat4x4<f32>,
    light: Light,
};

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

struct InstanceIn {
    @location(2) model0: vec4<f32>,
    @location(3) model1: vec4<f32>,
    @location(4) model2: vec4<f32>,
    @location(5) model3: vec4<f32>,
    @location(6) color: vec4<f32>,
};

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
    @location(1) color: vec4<f32>,
};

@vertex
fn vs_main(v: VertexIn, i: InstanceIn) -> VertexOut {
    let model = mat4x4<f32>(i.model0, i.model1, i.model2, i.model3);
    let s = vec3<f32>(length(i.model0.xyz), length(i.model1.xyz), length(i.model2.xyz));

    var out: VertexOut;
    out.clip = u.view_proj * model * vec4<f32>(v.position, 1.0);
    out.normal = (model * vec4<f32>(v.normal / (s * s), 0.0)).xyz;
    out.color = i.color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let n = normalize(in.normal);
    let ambient = u.light.direction.w;
    let diffuse = max(dot(n, -u.light.direction.xyz), 0.0) * u.light.color.rgb;
    return vec4<f32>(in.color.rgb * (ambient + (1.0 - ambient) * diffuse), in.color.a);
}
`

// uniforms mirrors the shader's Uniforms struct.
type uniforms struct {
	ViewProj [16]float32
	Light    light.GPULight
}
