package servo

import (
	"fmt"
	"strings"
)

// Scheme selects where the sensor is mounted and in which space the
// velocity is returned.
type Scheme int

const (
	SchemeNone Scheme = iota
	// EyeInHandCamera returns the camera velocity in the camera frame.
	EyeInHandCamera
	// EyeInHandLcVeeJe returns joint velocities using L cVe eJe.
	EyeInHandLcVeeJe
	// EyeToHandLcVeeJe returns joint velocities using -L cVe eJe.
	EyeToHandLcVeeJe
	// EyeToHandLcVffVeeJe returns joint velocities using -L cVf fVe eJe.
	EyeToHandLcVffVeeJe
	// EyeToHandLcVffJe returns joint velocities using -L cVf fJe.
	EyeToHandLcVffJe
)

var schemeNames = map[Scheme]string{
	SchemeNone:          "none",
	EyeInHandCamera:     "eye-in-hand-camera",
	EyeInHandLcVeeJe:    "eye-in-hand-cVe-eJe",
	EyeToHandLcVeeJe:    "eye-to-hand-cVe-eJe",
	EyeToHandLcVffVeeJe: "eye-to-hand-cVf-fVe-eJe",
	EyeToHandLcVffJe:    "eye-to-hand-cVf-fJe",
}

func (s Scheme) String() string {
	if n, ok := schemeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// EyeInHand reports whether the sensor rides on the controlled effector.
func (s Scheme) EyeInHand() bool {
	return s == EyeInHandCamera || s == EyeInHandLcVeeJe
}

// Articular reports whether the scheme returns joint velocities.
func (s Scheme) Articular() bool {
	return s != SchemeNone && s != EyeInHandCamera
}

// ParseScheme accepts the names printed by Scheme.String.
func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if strings.EqualFold(n, name) && s != SchemeNone {
			return s, nil
		}
	}
	return SchemeNone, fmt.Errorf("unknown scheme: %s", name)
}

// InteractionMode selects which interaction matrix enters the control law.
type InteractionMode int

const (
	// Current uses L(s).
	Current InteractionMode = iota
	// Desired uses L(s*).
	Desired
	// Mean uses (L(s) + L(s*)) / 2.
	Mean
)

func (m InteractionMode) String() string {
	switch m {
	case Current:
		return "current"
	case Desired:
		return "desired"
	case Mean:
		return "mean"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseInteractionMode(name string) (InteractionMode, error) {
	switch strings.ToLower(name) {
	case "current", "":
		return Current, nil
	case "desired":
		return Desired, nil
	case "mean":
		return Mean, nil
	}
	return Current, fmt.Errorf("unknown interaction mode: %s", name)
}

// Inversion selects how the task Jacobian is inverted.
type Inversion int

const (
	// PseudoInverse uses the truncated SVD Moore-Penrose inverse.
	PseudoInverse Inversion = iota
	// Transpose uses the transpose, a gradient-descent law.
	Transpose
)

func (i Inversion) String() string {
	switch i {
	case PseudoInverse:
		return "pseudo-inverse"
	case Transpose:
		return "transpose"
	default:
		return fmt.Sprintf("inversion(%d)", int(i))
	}
}

func ParseInversion(name string) (Inversion, error) {
	switch strings.ToLower(name) {
	case "pseudo-inverse", "pinv", "":
		return PseudoInverse, nil
	case "transpose":
		return Transpose, nil
	}
	return PseudoInverse, fmt.Errorf("unknown inversion: %s", name)
}
