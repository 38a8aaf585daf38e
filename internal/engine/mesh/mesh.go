// Package mesh provides procedural mesh generation and GPU upload.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is an interleaved mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Transform places a mesh in the world.
// Rotation is limited to the Y axis.
type Transform struct {
	Translate mgl32.Vec3
	Scale     mgl32.Vec3
	RotateY   float32 // radians
}

// NewTransform builds a Transform from its scalar components.
func NewTransform(tx, ty, tz, sx, sy, sz, rotY float32) Transform {
	return Transform{
		Translate: mgl32.Vec3{tx, ty, tz},
		Scale:     mgl32.Vec3{sx, sy, sz},
		RotateY:   rotY,
	}
}

// Matrix returns the model matrix T * Ry * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul4(mgl32.HomogRotate3DY(t.RotateY)).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Mesh is CPU-side indexed geometry in local space plus its placement.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Transform Transform
}

// Bounds returns the world-space bounding box of the mesh.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}

	model := m.Transform.Matrix()
	b := Bounds{
		Min: mgl32.Vec3{1e30, 1e30, 1e30},
		Max: mgl32.Vec3{-1e30, -1e30, -1e30},
	}
	for _, v := range m.Vertices {
		p := mgl32.TransformCoordinate(mgl32.Vec3(v.Position), model)
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b
}

// cubeFaces lists each face's outward normal and its four corners
// in counter-clockwise order seen from outside.
var cubeFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
}

// CubeVertexCount and CubeIndexCount describe the geometry produced by Cube.
const (
	CubeVertexCount = 24
	CubeIndexCount  = 36
)

// Cube returns a cube spanning [-1, 1] on every axis in local space,
// placed by t. Each face has its own four vertices so normals stay flat.
func Cube(t Transform) *Mesh {
	m := &Mesh{
		Vertices:  make([]Vertex, 0, CubeVertexCount),
		Indices:   make([]uint32, 0, CubeIndexCount),
		Transform: t,
	}

	for _, face := range cubeFaces {
		base := uint32(len(m.Vertices))
		for _, c := range face.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: face.normal})
		}
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return m
}
