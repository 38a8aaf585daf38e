package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a unit vector
// pointing towards the sun. Longitude rotates around Y, latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := float64(mgl32.DegToRad(longitude))
	lat := float64(mgl32.DegToRad(latitude))

	return mgl32.Vec3{
		float32(math.Cos(lat) * math.Sin(lon)),
		float32(math.Sin(lat)),
		float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// SunPosition places a light at distance from focus along SunDirection.
func SunPosition(focus mgl32.Vec3, distance, longitude, latitude float32) mgl32.Vec3 {
	return focus.Add(SunDirection(longitude, latitude).Mul(distance))
}

// SunAngles inverts SunPosition: it returns the longitude, latitude and
// distance of position relative to focus.
func SunAngles(focus, position mgl32.Vec3) (longitude, latitude, distance float32) {
	d := position.Sub(focus)
	distance = d.Len()
	if distance == 0 {
		return 0, 0, 0
	}
	latitude = mgl32.RadToDeg(float32(math.Asin(float64(d[1] / distance))))
	longitude = mgl32.RadToDeg(float32(math.Atan2(float64(d[0]), float64(d[2]))))
	return longitude, latitude, distance
}
