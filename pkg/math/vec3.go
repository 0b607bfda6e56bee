// Package math provides small vector types for model geometry.
package math

import "math"

// Vec3 is a 3D point or direction in model units.
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3 from a [3]float64, the array form used by geometry files.
func V3(a [3]float64) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{math.Min(v.X, other.X), math.Min(v.Y, other.Y), math.Min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{math.Max(v.X, other.X), math.Max(v.Y, other.Y), math.Max(v.Z, other.Z)}
}

// Array returns the components as float32s, the layout mesh buffers use.
func (v Vec3) Array() [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
