package plates

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestNewInventorySortsPlates verifies plates are stored heaviest first
// regardless of the configured order.
func TestNewInventorySortsPlates(t *testing.T) {
	inv, err := NewInventory([]float64{1.25, 20, 5, 10}, []Barbell{MensBar}, 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]float64{20, 10, 5, 1.25}, inv.Plates()); diff != "" {
		t.Errorf("plates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewInventoryCopies verifies later changes to the input slices do not
// leak into the inventory.
func TestNewInventoryCopies(t *testing.T) {
	ps := []float64{10, 5}
	bs := []Barbell{MensBar}
	inv, err := NewInventory(ps, bs, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ps[0] = 99
	bs[0].WeightKg = 99

	if got := inv.Plates()[0]; got != 10 {
		t.Errorf("plate[0] = %v, want 10", got)
	}
	if got := inv.Barbells()[0].WeightKg; got != 20 {
		t.Errorf("barbell weight = %v, want 20", got)
	}
}

func TestNewInventoryRejects(t *testing.T) {
	tests := []struct {
		name     string
		plates   []float64
		barbells []Barbell
		collar   float64
	}{
		{"no plates", nil, []Barbell{MensBar}, 0},
		{"zero plate", []float64{10, 0}, []Barbell{MensBar}, 0},
		{"negative plate", []float64{-5}, []Barbell{MensBar}, 0},
		{"nan plate", []float64{math.NaN()}, []Barbell{MensBar}, 0},
		{"duplicate plate", []float64{5, 10, 5}, []Barbell{MensBar}, 0},
		{"no barbells", []float64{5}, nil, 0},
		{"unnamed barbell", []float64{5}, []Barbell{{WeightKg: 20}}, 0},
		{"duplicate barbell", []float64{5}, []Barbell{MensBar, MensBar}, 0},
		{"weightless barbell", []float64{5}, []Barbell{{Name: "x"}}, 0},
		{"negative collar", []float64{5}, []Barbell{MensBar}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewInventory(tt.plates, tt.barbells, tt.collar); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestBarbellLookup covers named, default and unknown barbells.
func TestBarbellLookup(t *testing.T) {
	inv := DefaultInventory()

	b, err := inv.Barbell("women")
	if err != nil || b.WeightKg != 15 {
		t.Errorf("Barbell(women) = %+v, %v; want 15 kg", b, err)
	}

	b, err = inv.Barbell("")
	if err != nil || b != MensBar {
		t.Errorf("Barbell(\"\") = %+v, %v; want men's bar", b, err)
	}

	_, err = inv.Barbell("kids")
	if !errors.Is(err, ErrUnknownBarbell) || !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Barbell(kids) error = %v, want ErrUnknownBarbell", err)
	}
}

func TestDefaultInventory(t *testing.T) {
	inv := DefaultInventory()
	if diff := cmp.Diff(DefaultPlates, inv.Plates()); diff != "" {
		t.Errorf("plates mismatch (-want +got):\n%s", diff)
	}
	if inv.CollarKg() != DefaultCollarKg {
		t.Errorf("CollarKg() = %v, want %v", inv.CollarKg(), DefaultCollarKg)
	}
}
