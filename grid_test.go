package graytext

import (
	"errors"
	"testing"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(2, 3)
	if err != nil {
		t.Fatalf("NewGrid(2, 3) failed: %v", err)
	}
	if g.Len() != 6 || len(g.Pix) != 6 {
		t.Errorf("NewGrid(2, 3) expected 6 pixels, got Len %d, len(Pix) %d", g.Len(), len(g.Pix))
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate failed on a new grid: %v", err)
	}

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		if _, err := NewGrid(dims[0], dims[1]); !errors.Is(err, ErrShape) {
			t.Errorf("NewGrid(%d, %d) expected ErrShape, got %v", dims[0], dims[1], err)
		}
	}
}

func TestGridAccessors(t *testing.T) {
	g, err := NewGrid(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	g.Set(1, 2, 9)
	g.Set(0, 1, 4)
	if v := g.At(1, 2); v != 9 {
		t.Errorf("At(1, 2) expected 9, got %d", v)
	}
	if g.Pix[5] != 9 || g.Pix[1] != 4 {
		t.Errorf("Set did not use row-major order: %v", g.Pix)
	}
	row := g.Row(1)
	if len(row) != 3 || row[2] != 9 {
		t.Errorf("Row(1) expected [0 0 9], got %v", row)
	}
}

func TestGridEqual(t *testing.T) {
	a := &Grid{Height: 1, Width: 2, Pix: []uint8{1, 2}}
	for _, c := range []struct {
		label    string
		other    *Grid
		expected bool
	}{
		{"same", &Grid{Height: 1, Width: 2, Pix: []uint8{1, 2}}, true},
		{"pixel", &Grid{Height: 1, Width: 2, Pix: []uint8{1, 3}}, false},
		{"transposed", &Grid{Height: 2, Width: 1, Pix: []uint8{1, 2}}, false},
		{"nil", nil, false},
	} {
		t.Run(c.label, func(t *testing.T) {
			if got := a.Equal(c.other); got != c.expected {
				t.Errorf("Equal expected %v, got %v", c.expected, got)
			}
		})
	}
}
