package model

// System is the editable, in-progress lens description: an ordered stack
// of surfaces and gaps plus aperture, fields, and wavelengths. It carries
// no derived state — that lives in BuiltSystem, produced by build().
type System struct {
	Title string
	Units string

	Surfaces    []Surface
	Gaps        []Gap
	Aperture    Aperture
	Fields      []Field
	Wavelengths []Wavelength

	// generation increments on every setter call; a BuiltSystem snapshot
	// records the generation it was built from so staleness is checked
	// cheaply without diffing the whole struct (it is read only through
	// Generation()).
	generation int
}

// NewSystem returns an empty, editable system with unit "mm".
func NewSystem() *System {
	return &System{Units: "mm"}
}

func (s *System) SetSurfaces(surfaces []Surface) {
	s.Surfaces = surfaces
	s.generation++
}

func (s *System) SetGaps(gaps []Gap) {
	s.Gaps = gaps
	s.generation++
}

func (s *System) SetAperture(aperture Aperture) {
	s.Aperture = aperture
	s.generation++
}

func (s *System) SetFields(fields []Field) {
	s.Fields = fields
	s.generation++
}

func (s *System) SetWavelengths(wavelengths []Wavelength) {
	s.Wavelengths = wavelengths
	s.generation++
}

// Generation returns the current edit generation, used by BuiltSystem to
// detect that setters ran since it was produced (invariant 7: "edits
// invalidate the BuiltSystem").
func (s *System) Generation() int {
	return s.generation
}

// Element is a consecutive run of one or two Conic surfaces forming a
// single optical element (builder step 5 — element pairing).
type Element struct {
	SurfaceIndices []int
}

// PupilDescription is the {location, semi_diameter} shape shared by the
// entrance pupil, exit pupil, and paraxial image plane subview fields.
type PupilDescription struct {
	Location     float64
	SemiDiameter float64
}

// BuiltSystem is the immutable snapshot produced by build(): a frozen copy
// of the surfaces/gaps plus every quantity builder steps 3-7 derive from
// them. It is invalidated the instant any System setter runs again.
type BuiltSystem struct {
	sourceGeneration int

	Title string
	Units string

	Surfaces []Surface // semi-diameters fully resolved
	Gaps     []Gap
	Aperture Aperture
	Fields   []Field

	Wavelengths []Wavelength

	// Z holds the axial z-position of each surface's vertex.
	Z []float64

	// N holds per-(gap,wavelength) refractive index: N[gapIndex][wavelengthIndex].
	N [][]float64

	ApertureStopIndex int

	// EntrancePupil is the builder's wavelength-independent geometric
	// aperture sizing (step 7): real ray bundles are launched through
	// this pupil regardless of wavelength, matching how a physical stop
	// sizes a bundle geometrically before any dispersion is considered.
	EntrancePupil PupilDescription

	Components []Element
}

// NewBuiltSystem freezes a BuiltSystem snapshot tagged with sys's current
// generation. Only the builder package should call this — every other
// field is filled in afterward by the caller before the snapshot is handed
// to consumers.
func NewBuiltSystem(sys *System) *BuiltSystem {
	return &BuiltSystem{sourceGeneration: sys.Generation()}
}

// Stale reports whether sys has been edited since b was built.
func (b *BuiltSystem) Stale(sys *System) bool {
	return sys.Generation() != b.sourceGeneration
}

// SurfaceCount returns the number of surfaces, including Object and Image.
func (b *BuiltSystem) SurfaceCount() int {
	return len(b.Surfaces)
}
