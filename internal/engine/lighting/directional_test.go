package lighting

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sunlight/internal/engine/mesh"
)

type fakeTarget struct {
	valid     bool
	destroyed int
}

func (f *fakeTarget) BindWithViewport() func() { return func() {} }
func (f *fakeTarget) Clear(r, g, b, a float32) {}
func (f *fakeTarget) Size() (int32, int32) { return 2048, 2048 }
func (f *fakeTarget) Valid() bool { return f.valid && f.destroyed == 0 }
func (f *fakeTarget) Destroy() { f.destroyed++ }

func allocatorFor(target *fakeTarget) TargetAllocator {
	return AllocatorFunc(func() (RenderTarget, error) {
		return target, nil
	})
}

func failingAllocator(err error) TargetAllocator {
	return AllocatorFunc(func() (RenderTarget, error) {
		return nil, err
	})
}

func defaultParams() Params {
	return Params{
		Intensity:    5000,
		Color:        mgl32.Vec3{1, 1, 1},
		Position:     mgl32.Vec3{0, 80, 80},
		FocalPoint:   mgl32.Vec3{0, 0, 0},
		Up:           mgl32.Vec3{0, 1, 0},
		HasShadowMap: true,
	}
}

func newTestLight(t *testing.T, p Params) (*DirectionalLight, *fakeTarget) {
	t.Helper()
	target := &fakeTarget{valid: true}
	l := New(p, allocatorFor(target))
	require.NoError(t, l.Err())
	return l, target
}

func TestNew(t *testing.T) {
	l, target := newTestLight(t, defaultParams())

	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, float32(5000), l.Intensity())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, mgl32.Vec3{0, 80, 80}, l.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, l.FocalPoint)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Up)
	assert.True(t, l.HasShadowMap())
	assert.Same(t, target, l.Target())
	assert.False(t, l.Degraded())
	assert.True(t, l.ShadowReady())
}

func TestNewBuildsVisualProxy(t *testing.T) {
	for _, shadow := range []bool{true, false} {
		p := defaultParams()
		p.HasShadowMap = shadow
		l, _ := newTestLight(t, p)

		require.NotNil(t, l.Mesh())
		assert.Len(t, l.Mesh().Vertices, mesh.CubeVertexCount)
		assert.Equal(t, mgl32.Vec3{ProxyScale, ProxyScale, ProxyScale}, l.Mesh().Transform.Scale)
		assert.Equal(t, mgl32.Vec3{}, l.Mesh().Transform.Translate)

		require.NotNil(t, l.Material())
		assert.Equal(t, l.Intensity(), l.Material().Intensity())
		assert.Equal(t, l.Color(), l.Material().Color())
	}
}

func TestNewUniqueIDs(t *testing.T) {
	a, _ := newTestLight(t, defaultParams())
	b, _ := newTestLight(t, defaultParams())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewAllocationFailure(t *testing.T) {
	cause := errors.New("framebuffer incomplete: 0x8cd6")

	var l *DirectionalLight
	require.NotPanics(t, func() {
		l = New(defaultParams(), failingAllocator(cause))
	})

	assert.True(t, l.Degraded())
	assert.ErrorIs(t, l.Err(), cause)
	assert.Nil(t, l.Target())
	assert.False(t, l.ShadowReady())

	// Everything except the target is still set up.
	assert.Len(t, l.Mesh().Vertices, mesh.CubeVertexCount)
	assert.Equal(t, float32(5000), l.Material().Intensity())
	assert.Equal(t, mgl32.Vec3{0, 80, 80}, l.Position)

	// MVP does not depend on the target.
	ok, _ := newTestLight(t, defaultParams())
	assert.Equal(t,
		ok.CalcLightMVP(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}),
		l.CalcLightMVP(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}),
	)

	assert.NotPanics(t, l.Destroy)
}

func TestNewNilAllocator(t *testing.T) {
	l := New(defaultParams(), nil)

	assert.ErrorIs(t, l.Err(), ErrNoAllocator)
	assert.False(t, l.ShadowReady())
	assert.NotNil(t, l.Mesh())
}

func TestNewInvalidTarget(t *testing.T) {
	target := &fakeTarget{valid: false}
	l := New(defaultParams(), allocatorFor(target))

	assert.True(t, l.Degraded())
	assert.Nil(t, l.Target())
	assert.Equal(t, 1, target.destroyed, "invalid target should be released")
}

func TestShadowReadyRequiresShadowMap(t *testing.T) {
	p := defaultParams()
	p.HasShadowMap = false
	l, _ := newTestLight(t, p)

	assert.NotNil(t, l.Target())
	assert.False(t, l.ShadowReady())
}

func TestDestroy(t *testing.T) {
	l, target := newTestLight(t, defaultParams())

	l.Destroy()
	l.Destroy()

	assert.Equal(t, 1, target.destroyed)
	assert.Nil(t, l.Target())
	assert.False(t, l.ShadowReady())
}

func TestCalcLightMVPDeterministic(t *testing.T) {
	l, _ := newTestLight(t, defaultParams())
	translate := mgl32.Vec3{12.5, -3, 7}
	scale := mgl32.Vec3{2, 0.5, 3}

	first := l.CalcLightMVP(translate, scale)
	second := l.CalcLightMVP(translate, scale)

	assert.Equal(t, first, second)
}

func TestCalcLightMVPFollowsPose(t *testing.T) {
	translate := mgl32.Vec3{1, 0, 1}
	scale := mgl32.Vec3{1, 1, 1}

	tests := []struct {
		name   string
		mutate func(l *DirectionalLight)
		same   bool
	}{
		{"position", func(l *DirectionalLight) { l.Position = mgl32.Vec3{20, 80, 80} }, false},
		{"focal point", func(l *DirectionalLight) { l.FocalPoint = mgl32.Vec3{0, 0, -10} }, false},
		{"up", func(l *DirectionalLight) { l.Up = mgl32.Vec3{1, 0, 0} }, false},
		{"same position", func(l *DirectionalLight) { l.Position = mgl32.Vec3{0, 80, 80} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLight(t, defaultParams())
			before := l.CalcLightMVP(translate, scale)

			tt.mutate(l)
			after := l.CalcLightMVP(translate, scale)

			if tt.same {
				assert.Equal(t, before, after)
			} else {
				assert.NotEqual(t, before, after)
			}
		})
	}
}

func TestCalcLightMVPOrthographicDepth(t *testing.T) {
	p := defaultParams()
	p.Position = mgl32.Vec3{0, 10, 0}
	p.FocalPoint = mgl32.Vec3{0, 0, 0}
	p.Up = mgl32.Vec3{0, 0, 1}
	l, _ := newTestLight(t, p)

	origin := mgl32.Vec4{0, 0, 0, 1}
	clip := l.CalcLightMVP(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}).Mul4x1(origin)

	// The origin is 10 units in front of the light.
	wantZ := (2*10 - (ShadowFar + ShadowNear)) / (ShadowFar - ShadowNear)
	assert.InDelta(t, 0, clip[0], 1e-6)
	assert.InDelta(t, 0, clip[1], 1e-6)
	assert.InDelta(t, wantZ, clip[2], 1e-5)
	assert.Equal(t, float32(1), clip[3], "orthographic projection keeps w = 1")

	// Depth maps the near plane to -1, the far plane to +1, and is linear between.
	depthAt := func(distance float32) float32 {
		mvp := l.CalcLightMVP(mgl32.Vec3{0, 10 - distance, 0}, mgl32.Vec3{1, 1, 1})
		return mvp.Mul4x1(origin)[2]
	}
	assert.InDelta(t, -1, depthAt(ShadowNear), 1e-5)
	assert.InDelta(t, 1, depthAt(ShadowFar), 1e-5)

	d1, d2, d3 := depthAt(50), depthAt(150), depthAt(250)
	assert.InDelta(t, d2-d1, d3-d2, 1e-5)
}

func TestCalcLightMVPCompositionOrder(t *testing.T) {
	l, _ := newTestLight(t, defaultParams())
	translate := mgl32.Vec3{5, 0, 3}
	scale := mgl32.Vec3{2, 2, 2}

	mvp := l.CalcLightMVP(translate, scale)

	// Scale applies in the object's frame, translation outside it.
	local := mgl32.Vec4{1, 1, 1, 1}
	world := mgl32.Vec4{7, 2, 5, 1}
	got := mvp.Mul4x1(local)
	want := l.ViewProjection().Mul4x1(world)

	assert.InDeltaSlice(t, want[:], got[:], 1e-5)
}

func TestCalcLightMVPZeroScaleIsSingular(t *testing.T) {
	l, _ := newTestLight(t, defaultParams())

	mvp := l.CalcLightMVP(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 0, 0})
	assert.InDelta(t, 0, mvp.Det(), 1e-9)

	regular := l.CalcLightMVP(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{1, 1, 1})
	assert.NotZero(t, regular.Det())
}

func TestCalcLightMVPRotated(t *testing.T) {
	l, _ := newTestLight(t, defaultParams())
	translate := mgl32.Vec3{-4, 1, 9}
	scale := mgl32.Vec3{1, 2, 3}

	plain := l.CalcLightMVP(translate, scale)
	identity := l.CalcLightMVPRotated(translate, mgl32.QuatIdent(), scale)
	assert.InDeltaSlice(t, plain[:], identity[:], 1e-6)

	yaw := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	rotated := l.CalcLightMVPRotated(translate, yaw, scale)
	assert.NotEqual(t, plain, rotated)

	// Local +X lands where local -Z would without rotation, after scaling.
	got := rotated.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := l.ViewProjection().Mul4x1(mgl32.Vec4{-4, 1, 9 - 1, 1})
	assert.InDeltaSlice(t, want[:], got[:], 1e-5)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantErr error
	}{
		{"default pose", func(p *Params) {}, nil},
		{"coincident focus", func(p *Params) { p.FocalPoint = p.Position }, ErrCoincidentFocus},
		{"up along view", func(p *Params) { p.Up = mgl32.Vec3{0, -80, -80} }, ErrParallelUp},
		{"zero up", func(p *Params) { p.Up = mgl32.Vec3{} }, ErrParallelUp},
		{"straight down with z up", func(p *Params) {
			p.Position = mgl32.Vec3{0, 10, 0}
			p.Up = mgl32.Vec3{0, 0, 1}
		}, nil},
		{"straight down with y up", func(p *Params) {
			p.Position = mgl32.Vec3{0, 10, 0}
		}, ErrParallelUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
