// Package material provides surface materials for the rasterizer.
package material

import "github.com/go-gl/mathgl/mgl32"

// Uniforms receives material parameters. shader.Program implements it.
type Uniforms interface {
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// Uniform names written by Emissive.Apply.
const (
	UniformIntensity = "uLightIntensity"
	UniformColor     = "uLightColor"
)

// Emissive renders a surface as a constant light-emitting color,
// independent of scene lighting.
type Emissive struct {
	intensity float32
	color     mgl32.Vec3
}

// NewEmissive creates an emissive material.
func NewEmissive(intensity float32, color mgl32.Vec3) *Emissive {
	return &Emissive{intensity: intensity, color: color}
}

// Intensity returns the emission strength.
func (e *Emissive) Intensity() float32 { return e.intensity }

// Color returns the emission color.
func (e *Emissive) Color() mgl32.Vec3 { return e.color }

// Radiance returns color scaled by intensity.
func (e *Emissive) Radiance() mgl32.Vec3 {
	return e.color.Mul(e.intensity)
}

// Apply uploads the material parameters.
func (e *Emissive) Apply(u Uniforms) {
	u.SetFloat(UniformIntensity, e.intensity)
	u.SetVec3(UniformColor, e.color)
}

// EmissiveVertexShader transforms the light proxy into clip space.
const EmissiveVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

// EmissiveFragmentShader outputs the light color. Intensity is in scene
// units, so it is only used to decide whether the proxy is lit at all.
const EmissiveFragmentShader = `
#version 410 core

uniform float uLightIntensity;
uniform vec3 uLightColor;

out vec4 FragColor;

void main() {
    FragColor = uLightIntensity > 0.0 ? vec4(uLightColor, 1.0) : vec4(0.0, 0.0, 0.0, 1.0);
}
`
