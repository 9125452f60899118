package actor

import "math"

// LineWeight returns quantity × weight rounded to hundredths. Negative
// quantities count as zero.
func (e InventoryEntry) LineWeight() float64 {
	q := e.Quantity
	if q < 0 {
		q = 0
	}
	return roundHundredths(float64(q) * e.Weight)
}

// CarriedWeight sums the line weights of entries, rounded to hundredths.
func CarriedWeight(entries []InventoryEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.LineWeight()
	}
	return roundHundredths(total)
}

func roundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}
