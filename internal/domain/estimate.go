package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Scale is the fixed deck a room accepts. Free-form values are rejected.
var Scale = []int{1, 2, 3, 5, 8, 13, 21}

const unsureToken = "?"

var ErrInvalidEstimate = errors.New("estimate not on the scale")

// Estimate is a tagged value: a point from the scale or the "unsure" marker.
// The zero value is not valid; construct via NumericEstimate or UnsureEstimate.
type Estimate struct {
	Points int
	Unsure bool
}

func NumericEstimate(points int) (Estimate, error) {
	for _, p := range Scale {
		if p == points {
			return Estimate{Points: points}, nil
		}
	}
	return Estimate{}, fmt.Errorf("%w: %d", ErrInvalidEstimate, points)
}

func UnsureEstimate() Estimate { return Estimate{Unsure: true} }

// MarshalJSON emits the wire form: a bare number or "?".
func (e Estimate) MarshalJSON() ([]byte, error) {
	if e.Unsure {
		return json.Marshal(unsureToken)
	}
	return json.Marshal(e.Points)
}

func (e *Estimate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unsureToken {
			return fmt.Errorf("%w: %q", ErrInvalidEstimate, s)
		}
		*e = Estimate{Unsure: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEstimate, data)
	}
	est, err := NumericEstimate(n)
	if err != nil {
		return err
	}
	*e = est
	return nil
}
