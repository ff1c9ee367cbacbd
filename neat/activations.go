package neat

import (
	"fmt"
	"math"

	"github.com/riftwarden/neat-go/neat/nn"
)

// GetActivation looks up one of the network-wide activation functions
// recognized by name in configuration. The zero value ("" or "sigmoid")
// resolves to the canonical steepened sigmoid.
func GetActivation(name string) (nn.ActivationFunc, error) {
	if name == "" {
		name = "sigmoid"
	}
	fn, ok := activationFunctions[name]
	if !ok {
		return nil, fmt.Errorf("neat: unknown activation function %q", name)
	}
	return fn, nil
}

var activationFunctions = map[string]nn.ActivationFunc{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"abs":      Absolute,
	"sine":     Sine,
	"cosine":   Cosine,
	"inv":      Inv,
	"log":      Log,
	"exp":      Exp,
	"hat":      Hat,
	"square":   Square,
	"cube":     Cube,
}

// Sigmoid is the steepened logistic sigmoid 1/(1+e^-4.9x), the default
// output non-linearity.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-4.9*x))
}

func Tanh(x float64) float64     { return math.Tanh(x) }
func ReLU(x float64) float64     { return math.Max(0, x) }
func Identity(x float64) float64 { return x }
func Clamped(x float64) float64  { return clamp(x, -1.0, 1.0) }
func Gaussian(x float64) float64 { return math.Exp(-x * x / 2.0) }
func Absolute(x float64) float64 { return math.Abs(x) }
func Sine(x float64) float64     { return math.Sin(x) }
func Cosine(x float64) float64   { return math.Cos(x) }

func Inv(x float64) float64 {
	if x == 0.0 {
		return 0.0
	}
	return 1.0 / x
}

func Log(x float64) float64 {
	const epsilon = 1e-9
	return math.Log(math.Max(epsilon, x))
}

func Exp(x float64) float64 {
	return math.Exp(clamp(x, -60.0, 60.0))
}

func Hat(x float64) float64    { return math.Max(0.0, 1.0-math.Abs(x)) }
func Square(x float64) float64 { return x * x }
func Cube(x float64) float64   { return x * x * x }
