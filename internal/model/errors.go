package model

import "fmt"

// ErrorKind is the stable enumeration of §6: the first five are build-time
// failures, the last three are per-ray trace termination reasons.
type ErrorKind string

const (
	ShapeInvalid            ErrorKind = "ShapeInvalid"
	GeometryUnrealizable    ErrorKind = "GeometryUnrealizable"
	MaterialUnknown         ErrorKind = "MaterialUnknown"
	AmbiguousStop           ErrorKind = "AmbiguousStop"
	NonFinite               ErrorKind = "NonFinite"
	MissedSurface           ErrorKind = "MissedSurface"
	Vignetted               ErrorKind = "Vignetted"
	TotalInternalReflection ErrorKind = "TotalInternalReflection"
)

// SystemError is the single structured value a failed build() surfaces. It
// identifies the first offending element; the system remains editable.
type SystemError struct {
	Kind         ErrorKind
	SurfaceIndex *int
	GapIndex     *int
	Message      string
}

func (e *SystemError) Error() string {
	switch {
	case e.SurfaceIndex != nil:
		return fmt.Sprintf("%s at surface %d: %s", e.Kind, *e.SurfaceIndex, e.Message)
	case e.GapIndex != nil:
		return fmt.Sprintf("%s at gap %d: %s", e.Kind, *e.GapIndex, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func NewSurfaceError(kind ErrorKind, surfaceIndex int, message string) *SystemError {
	idx := surfaceIndex
	return &SystemError{Kind: kind, SurfaceIndex: &idx, Message: message}
}

func NewGapError(kind ErrorKind, gapIndex int, message string) *SystemError {
	idx := gapIndex
	return &SystemError{Kind: kind, GapIndex: &idx, Message: message}
}

func NewShapeError(message string) *SystemError {
	return &SystemError{Kind: ShapeInvalid, Message: message}
}
