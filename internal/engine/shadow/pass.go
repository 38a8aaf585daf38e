// Package shadow renders shadow casters into a directional light's render target.
package shadow

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sunlight/internal/engine/lighting"
	"github.com/Faultbox/sunlight/internal/engine/mesh"
	"github.com/Faultbox/sunlight/internal/engine/shader"
	"github.com/Faultbox/sunlight/internal/logger"
)

// Errors returned by Pass.Render before any GL work is done.
var (
	ErrNoShadowMap   = errors.New("light does not cast shadows")
	ErrTargetInvalid = errors.New("light render target is missing or invalid")
)

// UniformLightMVP is the per-caster light-space transform uniform.
const UniformLightMVP = "uLightMVP"

// Caster is a mesh drawn into the shadow map.
type Caster struct {
	Mesh      *mesh.GPUMesh
	Transform mesh.Transform
}

// Pass is a depth-only render pass from a light's point of view.
type Pass struct {
	program *shader.Program
}

// NewPass compiles the shadow depth program. Requires a current GL context.
func NewPass() (*Pass, error) {
	program, err := shader.NewProgram(depthVertexShader, depthFragmentShader)
	if err != nil {
		return nil, err
	}
	// Panics if the depth shader lost its MVP uniform.
	program.MustLocation(UniformLightMVP)
	return &Pass{program: program}, nil
}

// Ready explains light.ShadowReady: nil when it holds, otherwise
// ErrNoShadowMap or ErrTargetInvalid.
func Ready(light *lighting.DirectionalLight) error {
	switch {
	case light.ShadowReady():
		return nil
	case !light.HasShadowMap():
		return ErrNoShadowMap
	default:
		return ErrTargetInvalid
	}
}

// Render draws every caster into the light's render target.
//
// The previously bound framebuffer and viewport are restored afterwards.
func (p *Pass) Render(light *lighting.DirectionalLight, casters []Caster) error {
	if err := Ready(light); err != nil {
		return err
	}

	target := light.Target()
	restore := target.BindWithViewport()
	defer restore()

	// Untouched texels read as the far plane.
	target.Clear(1, 1, 1, 1)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	p.program.Use()
	for _, c := range casters {
		if c.Mesh == nil {
			continue
		}
		p.program.SetMat4(UniformLightMVP, casterMVP(light, c.Transform))
		c.Mesh.Draw()
	}

	logger.Debug("shadow pass rendered",
		zap.Stringer("light", light.ID),
		zap.Int("casters", len(casters)),
	)
	return nil
}

func casterMVP(light *lighting.DirectionalLight, t mesh.Transform) mgl32.Mat4 {
	if t.RotateY == 0 {
		return light.CalcLightMVP(t.Translate, t.Scale)
	}
	rotation := mgl32.QuatRotate(t.RotateY, mgl32.Vec3{0, 1, 0})
	return light.CalcLightMVPRotated(t.Translate, rotation, t.Scale)
}

// Destroy releases the depth program.
func (p *Pass) Destroy() {
	if p.program != nil {
		p.program.Destroy()
		p.program = nil
	}
}
