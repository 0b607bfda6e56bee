package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Scale(t *testing.T) {
	got := Vec3{16, -8, 4}.Scale(1.0 / 16)
	want := Vec3{1, -0.5, 0.25}
	if got != want {
		t.Errorf("Vec3.Scale() = %v, want %v", got, want)
	}
}

func TestVec3Sub(t *testing.T) {
	got := Vec3{5, 18, 3}.Sub(Vec3{-5, 6, -3})
	want := Vec3{10, 12, 6}
	if got != want {
		t.Errorf("Vec3.Sub() = %v, want %v", got, want)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got, want := a.Min(b), (Vec3{1, -1, -2}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, 0}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}
}

func TestV3(t *testing.T) {
	if got := V3([3]float64{-5, 6, -3}); got != (Vec3{-5, 6, -3}) {
		t.Errorf("V3() = %v", got)
	}
}
