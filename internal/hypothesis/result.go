package hypothesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptySample indicates a test input with no observations.
	ErrEmptySample = errors.New("empty sample")
	// ErrZeroExpected indicates a contingency cell with zero expected frequency.
	ErrZeroExpected = errors.New("contingency table has a zero expected frequency")
)

// Result is the outcome of one hypothesis test.
type Result struct {
	Name      string
	Label     string // statistic label used when printing, e.g. "Chi2"
	Statistic float64
	PValue    float64
	DOF       float64 // NaN when the test has no degrees of freedom
	N         []int   // sample sizes, or table dimensions for chi-square
}

func (r Result) String() string {
	return fmt.Sprintf("%s = %.4f, p-value = %.4f", r.Label, r.Statistic, r.PValue)
}

type resultJSON struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"p_value"`
	DOF       *float64 `json:"dof,omitempty"`
	N         []int    `json:"n"`
}

// MarshalJSON encodes NaN and infinite values as null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{r.Name, r.Label, finite(r.Statistic), finite(r.PValue), finite(r.DOF), r.N})
}

// UnmarshalJSON decodes null numbers back to NaN.
func (r *Result) UnmarshalJSON(b []byte) error {
	var v resultJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Result{Name: v.Name, Label: v.Label, Statistic: orNaN(v.Statistic), PValue: orNaN(v.PValue), DOF: orNaN(v.DOF), N: v.N}
	return nil
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
