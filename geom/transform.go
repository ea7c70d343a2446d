package geom

import "math"

// Transform places an object in the world. Rotation holds Euler angles in
// radians applied as yaw (Y), then pitch (X), then roll (Z).
type Transform struct {
	Translation Vec3 `yaml:"translation"`
	Rotation    Vec3 `yaml:"rotation"`
	Scale       Vec3 `yaml:"scale"`
}

// FromXYZ returns an unrotated, unit scaled transform at the given position
func FromXYZ(x, y, z float32) Transform {
	return Transform{Translation: Vec3{x, y, z}, Scale: One}
}

// Apply maps a point from local space into world space
func (t Transform) Apply(p Vec3) Vec3 {
	p = p.Mul(t.Scale)
	p = rotateZ(p, t.Rotation.Z)
	p = rotateX(p, t.Rotation.X)
	p = rotateY(p, t.Rotation.Y)
	return p.Add(t.Translation)
}

// LookingAt returns t rotated so its forward axis (-Z) faces target
func (t Transform) LookingAt(target Vec3) Transform {
	dir := target.Sub(t.Translation).Normalize()
	if dir == Zero {
		return t
	}
	t.Rotation.Y = float32(math.Atan2(float64(-dir.X), float64(-dir.Z)))
	t.Rotation.X = float32(math.Asin(float64(dir.Y)))
	t.Rotation.Z = 0
	return t
}

// Forward returns the direction the transform faces
func (t Transform) Forward() Vec3 {
	return rotateY(rotateX(Vec3{0, 0, -1}, t.Rotation.X), t.Rotation.Y)
}

func rotateX(p Vec3, angle float32) Vec3 {
	s, c := sincos(angle)
	return Vec3{p.X, p.Y*c - p.Z*s, p.Y*s + p.Z*c}
}

func rotateY(p Vec3, angle float32) Vec3 {
	s, c := sincos(angle)
	return Vec3{p.X*c + p.Z*s, p.Y, -p.X*s + p.Z*c}
}

func rotateZ(p Vec3, angle float32) Vec3 {
	s, c := sincos(angle)
	return Vec3{p.X*c - p.Y*s, p.X*s + p.Y*c, p.Z}
}

func sincos(angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
