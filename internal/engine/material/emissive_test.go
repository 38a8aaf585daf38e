package material

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type recordingUniforms struct {
	floats map[string]float32
	vec3s  map[string]mgl32.Vec3
}

func newRecordingUniforms() *recordingUniforms {
	return &recordingUniforms{
		floats: make(map[string]float32),
		vec3s:  make(map[string]mgl32.Vec3),
	}
}

func (r *recordingUniforms) SetFloat(name string, v float32) { r.floats[name] = v }
func (r *recordingUniforms) SetVec3(name string, v mgl32.Vec3) { r.vec3s[name] = v }

func TestEmissiveAccessors(t *testing.T) {
	m := NewEmissive(5000, mgl32.Vec3{1, 0.5, 0.25})

	assert.Equal(t, float32(5000), m.Intensity())
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, m.Color())
	assert.Equal(t, mgl32.Vec3{5000, 2500, 1250}, m.Radiance())
}

func TestEmissiveApply(t *testing.T) {
	m := NewEmissive(2, mgl32.Vec3{0.1, 0.2, 0.3})
	u := newRecordingUniforms()

	m.Apply(u)

	assert.Equal(t, float32(2), u.floats[UniformIntensity])
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, u.vec3s[UniformColor])
}

func TestEmissiveShadersDeclareUniforms(t *testing.T) {
	assert.Contains(t, EmissiveFragmentShader, UniformIntensity)
	assert.Contains(t, EmissiveFragmentShader, UniformColor)
	assert.Contains(t, EmissiveVertexShader, "uViewProj")
}
