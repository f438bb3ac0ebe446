package particle

import "math"

// Vec3 is a 3-component float32 vector.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// LengthSq returns the squared length (no sqrt).
func (v Vec3) LengthSq() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Length returns the Euclidean length.
func (v Vec3) Length() float32 { return float32(math.Sqrt(float64(v.LengthSq()))) }
