// Package lighting provides scene light sources.
package lighting

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/sunlight/internal/engine/material"
	"github.com/Faultbox/sunlight/internal/engine/mesh"
	"github.com/Faultbox/sunlight/internal/logger"
)

// Orthographic shadow frustum of every directional light, in light view space.
// Depth is linear between ShadowNear and ShadowFar.
const (
	ShadowLeft   float32 = -100
	ShadowRight  float32 = 100
	ShadowBottom float32 = -100
	ShadowTop    float32 = 100
	ShadowNear   float32 = 0.1
	ShadowFar    float32 = 400
)

// ProxyScale is the edge half-length of the cube drawn for the light itself.
const ProxyScale float32 = 0.2

// Pose errors reported by Params.Validate.
var (
	ErrCoincidentFocus = errors.New("position and focal point coincide")
	ErrParallelUp      = errors.New("up vector is parallel to the view direction")
)

// Params holds the construction inputs of a DirectionalLight.
type Params struct {
	Intensity    float32
	Color        mgl32.Vec3
	Position     mgl32.Vec3
	FocalPoint   mgl32.Vec3
	Up           mgl32.Vec3
	HasShadowMap bool
}

// Validate checks that the pose yields a well-defined view matrix.
// New does not call it.
func (p Params) Validate() error {
	dir := p.FocalPoint.Sub(p.Position)
	if dir.Len() < 1e-6 {
		return fmt.Errorf("%w: %v", ErrCoincidentFocus, p.Position)
	}
	if dir.Normalize().Cross(p.Up).Len() < 1e-6 {
		return fmt.Errorf("%w: up %v, direction %v", ErrParallelUp, p.Up, dir)
	}
	return nil
}

// DirectionalLight is a parallel-ray light that renders its own shadow map.
//
// Position, FocalPoint and Up may be changed between frames; every MVP call
// reads their current values.
type DirectionalLight struct {
	ID uuid.UUID

	Position   mgl32.Vec3
	FocalPoint mgl32.Vec3
	Up         mgl32.Vec3

	intensity    float32
	color        mgl32.Vec3
	hasShadowMap bool

	mesh     *mesh.Mesh
	material *material.Emissive

	target    RenderTarget
	targetErr error
}

// New creates a directional light and allocates its render target through alloc.
//
// The visual proxy is always built. If the target cannot be allocated the
// failure is logged and recorded; the light is returned in a degraded state
// where Err reports the cause and ShadowReady is false.
func New(p Params, alloc TargetAllocator) *DirectionalLight {
	l := &DirectionalLight{
		ID:           uuid.New(),
		Position:     p.Position,
		FocalPoint:   p.FocalPoint,
		Up:           p.Up,
		intensity:    p.Intensity,
		color:        p.Color,
		hasShadowMap: p.HasShadowMap,
		mesh:         mesh.Cube(mesh.NewTransform(0, 0, 0, ProxyScale, ProxyScale, ProxyScale, 0)),
		material:     material.NewEmissive(p.Intensity, p.Color),
	}

	l.target, l.targetErr = allocateTarget(alloc)
	if l.targetErr != nil {
		logger.Warn("cannot set up light render target",
			zap.Stringer("light", l.ID),
			zap.Bool("has_shadow_map", l.hasShadowMap),
			zap.Error(l.targetErr),
		)
		return l
	}

	w, h := l.target.Size()
	logger.Debug("directional light created",
		zap.Stringer("light", l.ID),
		zap.Bool("has_shadow_map", l.hasShadowMap),
		zap.Int32("target_width", w),
		zap.Int32("target_height", h),
	)
	return l
}

func allocateTarget(alloc TargetAllocator) (RenderTarget, error) {
	if alloc == nil {
		return nil, ErrNoAllocator
	}
	target, err := alloc.NewRenderTarget()
	if err != nil {
		return nil, fmt.Errorf("allocating render target: %w", err)
	}
	if target == nil || !target.Valid() {
		if target != nil {
			target.Destroy()
		}
		return nil, errors.New("allocating render target: target is invalid")
	}
	return target, nil
}

// CalcLightMVP returns projection * view * model for an object placed by
// translate and scale, where model = T * S.
//
// Rotation is not part of the model matrix; use CalcLightMVPRotated for
// rotated shadow casters. Degenerate input is not checked and produces a
// singular or NaN matrix.
func (l *DirectionalLight) CalcLightMVP(translate, scale mgl32.Vec3) mgl32.Mat4 {
	model := mgl32.Ident4().
		Mul4(mgl32.Translate3D(translate[0], translate[1], translate[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))

	return l.ViewProjection().Mul4(model)
}

// CalcLightMVPRotated is CalcLightMVP with model = T * R * S.
func (l *DirectionalLight) CalcLightMVPRotated(translate mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	model := mgl32.Translate3D(translate[0], translate[1], translate[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))

	return l.ViewProjection().Mul4(model)
}

// ViewProjection returns projection * view for the current pose.
func (l *DirectionalLight) ViewProjection() mgl32.Mat4 {
	view := mgl32.LookAtV(l.Position, l.FocalPoint, l.Up)
	proj := mgl32.Ortho(ShadowLeft, ShadowRight, ShadowBottom, ShadowTop, ShadowNear, ShadowFar)
	return proj.Mul4(view)
}

// Intensity returns the light intensity.
func (l *DirectionalLight) Intensity() float32 { return l.intensity }

// Color returns the light color.
func (l *DirectionalLight) Color() mgl32.Vec3 { return l.color }

// HasShadowMap reports whether the light contributes a shadow pass.
func (l *DirectionalLight) HasShadowMap() bool { return l.hasShadowMap }

// Mesh returns the cube drawn to visualize the light.
func (l *DirectionalLight) Mesh() *mesh.Mesh { return l.mesh }

// Material returns the emissive material of the visual proxy.
func (l *DirectionalLight) Material() *material.Emissive { return l.material }

// Target returns the light's render target, or nil if allocation failed
// or the light was destroyed.
func (l *DirectionalLight) Target() RenderTarget { return l.target }

// Err returns the render target allocation error, if any.
func (l *DirectionalLight) Err() error { return l.targetErr }

// Degraded reports whether the render target could not be allocated.
func (l *DirectionalLight) Degraded() bool { return l.targetErr != nil }

// ShadowReady reports whether a shadow pass can render into this light's target.
func (l *DirectionalLight) ShadowReady() bool {
	return l.hasShadowMap && l.target != nil && l.target.Valid()
}

// Destroy releases the render target. Safe to call more than once.
func (l *DirectionalLight) Destroy() {
	if l.target == nil {
		return
	}
	l.target.Destroy()
	l.target = nil
	logger.Debug("directional light destroyed", zap.Stringer("light", l.ID))
}
