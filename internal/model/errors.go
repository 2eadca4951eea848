package model

import "fmt"

// EmptyInputError is returned when a run is started with no cut items.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string { return "no cut items provided" }

// ItemTooLongError reports a piece that exceeds every available stock
// option's usable length, even at its minimum tolerated length.
type ItemTooLongError struct {
	ItemID      string
	ProfileType string
	Length      float64
}

func (e *ItemTooLongError) Error() string {
	return fmt.Sprintf("item %s (%s, %.1fmm) does not fit any stock option", e.ItemID, e.ProfileType, e.Length)
}

// MissingStockOptionError reports a profile type referenced by an item
// with no stock options in the catalog.
type MissingStockOptionError struct {
	ProfileType string
}

func (e *MissingStockOptionError) Error() string {
	return fmt.Sprintf("no stock options for profile type %q", e.ProfileType)
}

// InfeasibleConstraintError reports a malformed item detected during
// validation, before any search starts.
type InfeasibleConstraintError struct {
	ItemID string
	Reason string
}

func (e *InfeasibleConstraintError) Error() string {
	return fmt.Sprintf("item %s: %s", e.ItemID, e.Reason)
}

// InvalidConfigError reports an algorithm configuration that would make
// a search meaningless (zero population, negative kerf, ...).
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}
