package model

import "github.com/google/uuid"

// CutItem represents one required piece: a length to cut, a number of
// times, from bars of a given profile type. Items are validated once by
// the orchestrator and never mutated by the engine.
type CutItem struct {
	ID          string  `json:"id"`
	ProfileType string  `json:"profile_type"`
	Length      float64 `json:"length"`    // mm
	Quantity    int     `json:"quantity"`  // number of pieces required
	Tolerance   float64 `json:"tolerance"` // mm allowed under/over-length
	Priority    int     `json:"priority,omitempty"`
	WorkOrder   string  `json:"work_order,omitempty"` // originating order, kept for traceability
}

func NewCutItem(profileType string, length float64, qty int) CutItem {
	return CutItem{
		ID:          uuid.New().String()[:8],
		ProfileType: profileType,
		Length:      length,
		Quantity:    qty,
	}
}

// MinLength returns the shortest acceptable piece length.
func (c CutItem) MinLength() float64 { return c.Length - c.Tolerance }

// MaxLength returns the longest acceptable piece length.
func (c CutItem) MaxLength() float64 { return c.Length + c.Tolerance }

// StockOption represents a purchasable raw bar length for a profile type.
// A profile may offer several stock lengths; the engine selects which one
// to draw from each time it opens a new bar.
type StockOption struct {
	ID          string  `json:"id"`
	ProfileType string  `json:"profile_type"`
	StockLength float64 `json:"stock_length"` // mm
	Priority    int     `json:"priority"`     // tie-break order, lower = preferred
	IsDefault   bool    `json:"is_default"`
	PricePerBar float64 `json:"price_per_bar,omitempty"` // optional purchase price
}

func NewStockOption(profileType string, stockLength float64, priority int) StockOption {
	return StockOption{
		ID:          uuid.New().String()[:8],
		ProfileType: profileType,
		StockLength: stockLength,
		Priority:    priority,
	}
}

// UsableLength returns the length available for a single piece once the
// blade pass is accounted for.
func (s StockOption) UsableLength(kerf float64) float64 {
	return s.StockLength - kerf
}

// Plan ties a named cut list and its stock catalog together for load/save.
type Plan struct {
	Name  string        `json:"name"`
	Items []CutItem     `json:"items"`
	Stock []StockOption `json:"stock"`
}
