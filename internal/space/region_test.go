package space

import (
	"math/rand"
	"testing"

	"github.com/san-kum/molsim/internal/vec"
)

func TestWrap(t *testing.T) {
	region := NewRegion(vec.Vec2{1, 5})

	tests := []struct {
		name string
		in   vec.Vec2
		want vec.Vec2
	}{
		{"both axes outside", vec.Vec2{1.5, -4}, vec.Vec2{0.5, 1}},
		{"inside", vec.Vec2{0.2, -1.5}, vec.Vec2{0.2, -1.5}},
		{"upper edge", vec.Vec2{0.5, 2.5}, vec.Vec2{-0.5, -2.5}},
		{"lower edge", vec.Vec2{-0.5, -2.5}, vec.Vec2{-0.5, -2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := region.Wrap(tt.in); got != tt.want {
				t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrapIdempotent(t *testing.T) {
	region := NewRegion(vec.Vec3{10, 4, 7})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		var p vec.Vec3
		for k := range p {
			p[k] = (rng.Float64() - 0.5) * 2 * region.Size()[k]
		}
		once := region.Wrap(p)
		if twice := region.Wrap(once); twice != once {
			t.Fatalf("Wrap not idempotent: %v -> %v -> %v", p, once, twice)
		}
		if !region.Contains(once) {
			t.Fatalf("Wrap(%v) = %v lies outside the region", p, once)
		}
		if region.Contains(p) && once != p {
			t.Fatalf("Wrap moved an inside point %v to %v", p, once)
		}
	}
}

func TestMinimumImage(t *testing.T) {
	region := Cube[vec.Vec2](10)
	a := vec.Vec2{4.5, 0}
	b := vec.Vec2{-4.5, 0}

	dr := region.Wrap(vec.Sub(a, b))
	if dr != (vec.Vec2{-1, 0}) {
		t.Errorf("minimum image separation = %v, want [-1 0]", dr)
	}
}

func TestNewRegionRejectsNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero extent")
		}
	}()
	NewRegion(vec.Vec2{1, 0})
}

func TestVolume(t *testing.T) {
	if v := NewRegion(vec.Vec3{2, 3, 4}).Volume(); v != 24 {
		t.Errorf("Volume = %v, want 24", v)
	}
}
