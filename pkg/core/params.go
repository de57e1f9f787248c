package core

import (
	"fmt"
	"math"
	"strings"
)

// Parameter is a named scalar range. Value is the only field mutated while
// enumerating a grid, everything else is fixed at construction.
type Parameter struct {
	Name  string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// NewParameter creates a parameter positioned at its minimum
func NewParameter(name string, min, max, step float64) Parameter {
	return Parameter{Name: name, Min: min, Max: max, Step: step, Value: min}
}

// Epsilon is the tolerance used when comparing a value against Max
func (p Parameter) Epsilon() float64 {
	return math.Abs(p.Step) * 1e-9
}

// Size returns the number of grid values: floor((max - min) / step) + 1.
// A malformed range has no grid values.
func (p Parameter) Size() int {
	if !(p.Step > 0) || !(p.Min <= p.Max) || math.IsInf(p.Max-p.Min, 0) {
		return 0
	}
	return int(math.Floor((p.Max-p.Min)/p.Step+1e-9)) + 1
}

// At returns the k-th grid value of the parameter
func (p Parameter) At(k int) float64 {
	return p.Min + float64(k)*p.Step
}

// Index returns the grid index closest to v, clamped to the range
func (p Parameter) Index(v float64) int {
	k := int(math.Round((v - p.Min) / p.Step))
	return max(0, min(k, p.Size()-1))
}

// Validate checks the range invariants
func (p Parameter) Validate() error {
	if p.Name == "" {
		return ConfigurationError("parameter name cannot be empty")
	}
	if math.IsNaN(p.Min) || math.IsNaN(p.Max) || math.IsNaN(p.Step) {
		return ConfigurationError("parameter %s has a NaN bound", p.Name)
	}
	if p.Step <= 0 {
		return ConfigurationError("parameter %s step must be positive, got %g", p.Name, p.Step)
	}
	if p.Min > p.Max {
		return ConfigurationError("parameter %s min %g is greater than max %g", p.Name, p.Min, p.Max)
	}
	if p.Value < p.Min || p.Value > p.Max+p.Epsilon() {
		return ConfigurationError("parameter %s value %g is outside [%g, %g]", p.Name, p.Value, p.Min, p.Max)
	}
	return nil
}

func (p Parameter) String() string {
	return fmt.Sprintf("%s: min=%g, max=%g, step=%g, value=%g", p.Name, p.Min, p.Max, p.Step, p.Value)
}

// Params is an ordered parameter vector. Identity is positional.
type Params []Parameter

// Clone returns an independent copy
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	clone := make(Params, len(p))
	copy(clone, p)
	return clone
}

// Get returns the parameter with the given name
func (p Params) Get(name string) (Parameter, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	return Parameter{}, false
}

// Value returns the value of the named parameter, zero when it is missing
func (p Params) Value(name string) float64 {
	param, _ := p.Get(name)
	return param.Value
}

// Int returns the value of the named parameter rounded to the nearest integer
func (p Params) Int(name string) int {
	return int(math.Round(p.Value(name)))
}

// Set updates the value of the named parameter
func (p Params) Set(name string, value float64) bool {
	for i := range p {
		if p[i].Name == name {
			p[i].Value = value
			return true
		}
	}
	return false
}

// Names returns the parameter names in order
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// Values returns the parameter values in order
func (p Params) Values() []float64 {
	values := make([]float64, len(p))
	for i, param := range p {
		values[i] = param.Value
	}
	return values
}

// SameShape reports whether both vectors share the same names in the same order
func (p Params) SameShape(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i].Name != other[i].Name {
			return false
		}
	}
	return true
}

// Validate checks every parameter and rejects duplicated names
func (p Params) Validate() error {
	seen := make(map[string]struct{}, len(p))
	for _, param := range p {
		if err := param.Validate(); err != nil {
			return err
		}
		if _, ok := seen[param.Name]; ok {
			return ConfigurationError("duplicated parameter %s", param.Name)
		}
		seen[param.Name] = struct{}{}
	}
	return nil
}

// Key returns a stable identity of the current values
func (p Params) Key() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%g", param.Name, param.Value)
	}
	return sb.String()
}

func (p Params) String() string {
	return "{" + p.Key() + "}"
}
