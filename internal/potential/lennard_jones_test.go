package potential

import (
	"math"
	"testing"

	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/vec"
)

func TestLennardJonesPair(t *testing.T) {
	region := space.Cube[vec.Vec3](20)
	lj := NewLennardJones[vec.Vec3](2.5)

	r := 1.2
	pos := []vec.Vec3{{0, 0, 0}, {r, 0, 0}}
	acc := make([]vec.Vec3, 2)
	lj.ComputeForces(pos, acc, region)

	rri := 1 / (r * r)
	rri3 := rri * rri * rri
	fcVal := 48 * rri3 * (rri3 - 0.5) * rri
	wantU := 4*rri3*(rri3-1) + 1

	// dr = pos[0]-pos[1] = (-r,0,0)
	if math.Abs(acc[0][0]-(-r*fcVal)) > 1e-12 {
		t.Errorf("acc[0].x = %v, want %v", acc[0][0], -r*fcVal)
	}
	if acc[1] != vec.Neg(acc[0]) {
		t.Errorf("forces not equal and opposite: %v vs %v", acc[0], acc[1])
	}
	if math.Abs(lj.USum()-wantU) > 1e-12 {
		t.Errorf("USum = %v, want %v", lj.USum(), wantU)
	}
	if math.Abs(lj.VirialSum()-fcVal*r*r) > 1e-12 {
		t.Errorf("VirialSum = %v, want %v", lj.VirialSum(), fcVal*r*r)
	}
}

func TestLennardJonesEquilibriumDistance(t *testing.T) {
	region := space.Cube[vec.Vec2](20)
	lj := NewLennardJones[vec.Vec2](2.5)

	rMin := math.Pow(2, 1.0/6)
	pos := []vec.Vec2{{0, 0}, {0, rMin}}
	acc := make([]vec.Vec2, 2)
	lj.ComputeForces(pos, acc, region)

	if vec.Length(acc[0]) > 1e-12 {
		t.Errorf("expected no force at r_min, got %v", acc[0])
	}
}

func TestLennardJonesCutoff(t *testing.T) {
	region := space.Cube[vec.Vec2](20)
	lj := NewLennardJones[vec.Vec2](2.5)

	pos := []vec.Vec2{{0, 0}, {2.5, 0}}
	acc := []vec.Vec2{{9, 9}, {9, 9}}
	lj.ComputeForces(pos, acc, region)

	for i, a := range acc {
		if a != (vec.Vec2{}) {
			t.Errorf("acc[%d] = %v, want zero beyond cutoff", i, a)
		}
	}
	if lj.USum() != 0 || lj.VirialSum() != 0 {
		t.Errorf("sums = (%v, %v), want zero", lj.USum(), lj.VirialSum())
	}
}

func TestLennardJonesMinimumImage(t *testing.T) {
	region := space.Cube[vec.Vec2](10)
	lj := NewLennardJones[vec.Vec2](2.5)

	// 1.1 apart through the boundary.
	pos := []vec.Vec2{{4.8, 0}, {-4.1, 0}}
	acc := make([]vec.Vec2, 2)
	lj.ComputeForces(pos, acc, region)

	if lj.USum() == 0 {
		t.Fatal("expected the periodic image to interact")
	}
	// Repulsive at 1.1: particle 0 is pushed away from the image at 5.9.
	if acc[0][0] >= 0 {
		t.Errorf("acc[0].x = %v, want negative", acc[0][0])
	}
	if acc[1] != vec.Neg(acc[0]) {
		t.Errorf("forces not equal and opposite: %v vs %v", acc[0], acc[1])
	}
}

func TestLennardJonesOverwritesSums(t *testing.T) {
	region := space.Cube[vec.Vec2](20)
	lj := NewLennardJones[vec.Vec2](2.5)
	pos := []vec.Vec2{{0, 0}, {1.1, 0}}
	acc := make([]vec.Vec2, 2)

	lj.ComputeForces(pos, acc, region)
	first := lj.USum()
	lj.ComputeForces(pos, acc, region)

	if lj.USum() != first {
		t.Errorf("USum accumulated across evaluations: %v then %v", first, lj.USum())
	}
}

func TestMomentumConservedByForces(t *testing.T) {
	region := space.Cube[vec.Vec3](6)
	lj := NewLennardJones[vec.Vec3](2.5)
	pos := []vec.Vec3{
		{0, 0, 0}, {1.1, 0.1, 0}, {0, 1.2, -0.3}, {-1, -1, 1}, {2.8, 2.9, -2.9},
	}
	acc := make([]vec.Vec3, len(pos))
	lj.ComputeForces(pos, acc, region)

	total := vec.Sum(acc)
	if vec.Length(total) > 1e-9 {
		t.Errorf("net force = %v, want zero", total)
	}
}

func TestComputeForcesPreconditions(t *testing.T) {
	region := space.Cube[vec.Vec2](10)
	lj := NewLennardJones[vec.Vec2](2.5)

	tests := []struct {
		name string
		pos  []vec.Vec2
		acc  []vec.Vec2
	}{
		{"no particles", nil, nil},
		{"length mismatch", make([]vec.Vec2, 2), make([]vec.Vec2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			lj.ComputeForces(tt.pos, tt.acc, region)
		})
	}
}

func TestFree(t *testing.T) {
	f := NewFree[vec.Vec2]()
	acc := []vec.Vec2{{1, 2}}
	f.ComputeForces([]vec.Vec2{{0, 0}}, acc, space.Cube[vec.Vec2](1))

	if acc[0] != (vec.Vec2{}) {
		t.Errorf("Free left acceleration %v", acc[0])
	}
	if f.USum() != 0 || f.VirialSum() != 0 {
		t.Error("Free sums should be zero")
	}
}

func BenchmarkLennardJones_N125(b *testing.B) {
	region := space.Cube[vec.Vec3](6)
	lj := NewLennardJones[vec.Vec3](2.5)
	pos := make([]vec.Vec3, 0, 125)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				pos = append(pos, vec.Vec3{float64(i) - 2.5, float64(j) - 2.5, float64(k) - 2.5})
			}
		}
	}
	acc := make([]vec.Vec3, len(pos))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lj.ComputeForces(pos, acc, region)
	}
}
