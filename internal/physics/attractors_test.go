package physics

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/gravsnap/internal/dynamo"
)

func TestBuildTriangle(t *testing.T) {
	set := Build(Triangle, 500, 500, 300, 0, nil)
	if set.Len() != 3 {
		t.Fatalf("expected 3 masses, got %d", set.Len())
	}

	want := []dynamo.Vec2{
		{X: 250, Y: 50},
		{X: 100, Y: 350},
		{X: 400, Y: 350},
	}
	for i, w := range want {
		if set.Masses[i].Pos != w {
			t.Errorf("mass %d: expected %v, got %v", i, w, set.Masses[i].Pos)
		}
	}
}

func TestBuildLine(t *testing.T) {
	set := Build(Line, 200, 100, 80, 0, nil)

	want := []dynamo.Vec2{
		{X: 100, Y: 50},
		{X: 60, Y: 50},
		{X: 140, Y: 50},
	}
	for i, w := range want {
		if set.Masses[i].Pos != w {
			t.Errorf("mass %d: expected %v, got %v", i, w, set.Masses[i].Pos)
		}
	}
}

func TestBuildRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	set := Build(Random, 64, 32, 0, 99, rng)
	if set.Len() != DefaultRandomCount {
		t.Errorf("random layout should ignore count, got %d masses", set.Len())
	}

	set = Build(NRandom, 64, 32, 0, 9, rng)
	if set.Len() != 9 {
		t.Fatalf("expected 9 masses, got %d", set.Len())
	}
	for i, m := range set.Masses {
		if m.Pos.X < 0 || m.Pos.X >= 64 || m.Pos.Y < 0 || m.Pos.Y >= 32 {
			t.Errorf("mass %d out of bounds: %v", i, m.Pos)
		}
		if m.Pos.X != float32(int(m.Pos.X)) {
			t.Errorf("mass %d should sit on an integer pixel: %v", i, m.Pos)
		}
	}
}

func TestBuildRandomSeeded(t *testing.T) {
	a := Build(NRandom, 100, 100, 0, 5, rand.New(rand.NewSource(42)))
	b := Build(NRandom, 100, 100, 0, 5, rand.New(rand.NewSource(42)))
	for i := range a.Masses {
		if a.Masses[i] != b.Masses[i] {
			t.Errorf("mass %d differs for equal seeds", i)
		}
	}
}

func TestBuildZeroGrid(t *testing.T) {
	for _, layout := range []Layout{Triangle, Line, Random, NRandom} {
		t.Run(layout.String(), func(t *testing.T) {
			set := Build(layout, 0, 0, 0, 3, rand.New(rand.NewSource(1)))
			if set.Len() < 1 {
				t.Fatal("expected at least one mass")
			}
			first := set.Masses[0].Pos
			for i, m := range set.Masses {
				if !m.Pos.IsValid() {
					t.Errorf("mass %d not finite: %v", i, m.Pos)
				}
				if m.Pos != first {
					t.Errorf("mass %d not coincident: %v vs %v", i, m.Pos, first)
				}
			}
		})
	}
}

func TestBuildNRandomZeroCount(t *testing.T) {
	set := Build(NRandom, 10, 10, 0, 0, rand.New(rand.NewSource(1)))
	if set.Len() != 1 {
		t.Errorf("expected count clamped to 1, got %d", set.Len())
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in   string
		want Layout
	}{
		{"triangle", Triangle},
		{"LINE", Line},
		{" random ", Random},
		{"nrandom", NRandom},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseLayout("hexagon"); !errors.Is(err, dynamo.ErrUnknownLayout) {
		t.Errorf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestColorCycles(t *testing.T) {
	set := Build(NRandom, 10, 10, 0, 5, rand.New(rand.NewSource(3)))
	if set.Color(3) != set.Color(0) || set.Color(4) != set.Color(1) {
		t.Error("palette should repeat every three masses")
	}
}

func TestClosest(t *testing.T) {
	set := NewAttractorSet(dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 10, Y: 0}, dynamo.Vec2{X: 10, Y: 0})

	i, d := set.Closest(dynamo.Vec2{X: 9, Y: 0})
	if i != 1 || d != 1 {
		t.Errorf("expected mass 1 at distance 1, got %d at %f", i, d)
	}

	if i, _ := NewAttractorSet().Closest(dynamo.Vec2{}); i != -1 {
		t.Errorf("expected -1 for empty set, got %d", i)
	}
}
