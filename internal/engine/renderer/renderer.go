// Package renderer draws the viewer's main pass.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sunlight/internal/engine/lighting"
	"github.com/Faultbox/sunlight/internal/engine/material"
	"github.com/Faultbox/sunlight/internal/engine/mesh"
	"github.com/Faultbox/sunlight/internal/engine/shader"
	"github.com/Faultbox/sunlight/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Object is a mesh drawn in the main pass.
type Object struct {
	Mesh      *mesh.GPUMesh
	Transform mesh.Transform
	Albedo    mgl32.Vec3
}

// Renderer handles the main color pass.
type Renderer struct {
	config Config

	litProgram      *shader.Program
	emissiveProgram *shader.Program
}

// New initializes OpenGL and compiles the main pass programs.
// Must be called after the GL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	var err error
	r.litProgram, err = shader.NewProgram(litVertexShader, litFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("lit program: %w", err)
	}
	r.emissiveProgram, err = shader.NewProgram(material.EmissiveVertexShader, material.EmissiveFragmentShader)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("emissive program: %w", err)
	}

	return r, nil
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	logger.Debug("closing renderer")
	if r.litProgram != nil {
		r.litProgram.Destroy()
	}
	if r.emissiveProgram != nil {
		r.emissiveProgram.Destroy()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the current viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin binds the default framebuffer and clears it.
func (r *Renderer) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawObjects draws objects with a single diffuse term from light.
func (r *Renderer) DrawObjects(viewProj mgl32.Mat4, light *lighting.DirectionalLight, objects []Object) {
	r.litProgram.Use()
	r.litProgram.SetMat4("uViewProj", viewProj)
	r.litProgram.SetVec3("uLightDir", light.Position.Sub(light.FocalPoint).Normalize())
	r.litProgram.SetVec3("uLightColor", light.Color())

	for _, o := range objects {
		if o.Mesh == nil {
			continue
		}
		r.litProgram.SetMat4("uModel", o.Transform.Matrix())
		r.litProgram.SetVec3("uAlbedo", o.Albedo)
		o.Mesh.Draw()
	}
}

// DrawLight draws the light's emissive proxy at its current position.
func (r *Renderer) DrawLight(viewProj mgl32.Mat4, light *lighting.DirectionalLight, proxy *mesh.GPUMesh) {
	if proxy == nil {
		return
	}

	// The proxy mesh is built at the origin; follow the light's pose.
	t := light.Mesh().Transform
	t.Translate = t.Translate.Add(light.Position)

	r.emissiveProgram.Use()
	r.emissiveProgram.SetMat4("uViewProj", viewProj)
	r.emissiveProgram.SetMat4("uModel", t.Matrix())
	light.Material().Apply(r.emissiveProgram)
	proxy.Draw()
}

const litVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vNormal;

void main() {
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

const litFragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform vec3 uAlbedo;

out vec4 FragColor;

void main() {
    float diffuse = max(dot(normalize(vNormal), normalize(uLightDir)), 0.0);
    vec3 color = uAlbedo * (0.2 + 0.8 * diffuse * uLightColor);
    FragColor = vec4(color, 1.0);
}
`
