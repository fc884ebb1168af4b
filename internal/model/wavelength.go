package model

// Wavelength is a positive scalar in micrometers.
type Wavelength float64

// Axis distinguishes the Y (meridional) and X (sagittal/toric-reserved)
// paraxial subviews. In a centered, rotationally-symmetric system X≡Y —
// see SPEC_FULL.md §9 Open Question (ii).
type Axis int

const (
	AxisY Axis = iota
	AxisX
)

func (a Axis) String() string {
	if a == AxisX {
		return "X"
	}
	return "Y"
}
