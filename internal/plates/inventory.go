package plates

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// DefaultPlates is the standard competition plate set in kg, heaviest first.
var DefaultPlates = []float64{25, 20, 15, 10, 5, 2.5, 2, 1.5, 1, 0.5}

// DefaultCollarKg is the weight of one collar.
const DefaultCollarKg = 2.5

// Barbell is a named bar with its own weight.
type Barbell struct {
	Name     string  `json:"name"`
	WeightKg float64 `json:"weight_kg"`
}

var (
	MensBar   = Barbell{Name: "men", WeightKg: 20}
	WomensBar = Barbell{Name: "women", WeightKg: 15}
)

// Inventory is the set of plate denominations, barbells and the collar
// weight a calculator works with. Plates are assumed unlimited.
type Inventory struct {
	plates   []float64
	barbells []Barbell
	collarKg float64
}

// DefaultInventory returns the standard plate set with the men's and
// women's bars and 2.5 kg collars.
func DefaultInventory() *Inventory {
	inv, _ := NewInventory(DefaultPlates, []Barbell{MensBar, WomensBar}, DefaultCollarKg)
	return inv
}

// NewInventory validates and copies the given denominations and barbells.
// Plates may be given in any order; they are stored heaviest first.
func NewInventory(plates []float64, barbells []Barbell, collarKg float64) (*Inventory, error) {
	if len(plates) == 0 {
		return nil, fmt.Errorf("inventory: no plates")
	}
	ps := slices.Clone(plates)
	for _, p := range ps {
		if !(p > 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("inventory: invalid plate weight %v", p)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ps)))
	for i := 1; i < len(ps); i++ {
		if ps[i] == ps[i-1] {
			return nil, fmt.Errorf("inventory: duplicate plate weight %v", ps[i])
		}
	}

	if len(barbells) == 0 {
		return nil, fmt.Errorf("inventory: no barbells")
	}
	seen := make(map[string]bool, len(barbells))
	for _, b := range barbells {
		if b.Name == "" {
			return nil, fmt.Errorf("inventory: barbell without name")
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("inventory: duplicate barbell %q", b.Name)
		}
		if !(b.WeightKg > 0) || math.IsInf(b.WeightKg, 0) {
			return nil, fmt.Errorf("inventory: invalid weight %v for barbell %q", b.WeightKg, b.Name)
		}
		seen[b.Name] = true
	}

	if collarKg < 0 || math.IsNaN(collarKg) || math.IsInf(collarKg, 0) {
		return nil, fmt.Errorf("inventory: invalid collar weight %v", collarKg)
	}

	return &Inventory{
		plates:   ps,
		barbells: slices.Clone(barbells),
		collarKg: collarKg,
	}, nil
}

// Plates returns the denominations, heaviest first.
func (inv *Inventory) Plates() []float64 { return slices.Clone(inv.plates) }

// Barbells returns the configured barbells in configuration order.
func (inv *Inventory) Barbells() []Barbell { return slices.Clone(inv.barbells) }

// CollarKg returns the weight of a single collar.
func (inv *Inventory) CollarKg() float64 { return inv.collarKg }

// Barbell looks up a barbell by name. An empty name selects the first
// configured barbell.
func (inv *Inventory) Barbell(name string) (Barbell, error) {
	if name == "" {
		return inv.barbells[0], nil
	}
	for _, b := range inv.barbells {
		if b.Name == name {
			return b, nil
		}
	}
	return Barbell{}, fmt.Errorf("%w %q", ErrUnknownBarbell, name)
}
