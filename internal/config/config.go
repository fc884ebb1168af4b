// Package config loads a model.System from a YAML or JSON file, both
// decoded as YAML, generalizing the teacher's scene.LoadFromFile
// (which only ever read JSON scene files via encoding/json).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"raytraceGo/internal/model"
)

// specFile is the on-disk shape; every Surface/Gap/Field variant is
// disambiguated by a string Kind tag, translated into model's tagged
// structs by toSystem — the same string-switch shape as the teacher's
// createMaterial.
type specFile struct {
	Title       string       `yaml:"title" json:"title"`
	Units       string       `yaml:"units" json:"units"`
	Surfaces    []surfaceDoc `yaml:"surfaces" json:"surfaces"`
	Gaps        []gapDoc     `yaml:"gaps" json:"gaps"`
	Aperture    apertureDoc  `yaml:"aperture" json:"aperture"`
	Fields      []fieldDoc   `yaml:"fields" json:"fields"`
	Wavelengths []float64    `yaml:"wavelengths" json:"wavelengths"`
}

type surfaceDoc struct {
	Kind              string   `yaml:"kind" json:"kind"`
	SemiDiameter      *float64 `yaml:"semiDiameter,omitempty" json:"semiDiameter,omitempty"`
	RadiusOfCurvature float64  `yaml:"radiusOfCurvature,omitempty" json:"radiusOfCurvature,omitempty"`
	ConicConstant     float64  `yaml:"conicConstant,omitempty" json:"conicConstant,omitempty"`
	Interaction       string   `yaml:"interaction,omitempty" json:"interaction,omitempty"`
	Comment           string   `yaml:"comment,omitempty" json:"comment,omitempty"`
}

type gapDoc struct {
	Thickness  float64 `yaml:"thickness" json:"thickness"`
	Index      float64 `yaml:"index,omitempty" json:"index,omitempty"`
	CatalogKey string  `yaml:"material,omitempty" json:"material,omitempty"`
}

type apertureDoc struct {
	SemiDiameter float64 `yaml:"semiDiameter" json:"semiDiameter"`
}

type fieldDoc struct {
	Kind     string  `yaml:"kind" json:"kind"`
	AngleDeg float64 `yaml:"angleDeg,omitempty" json:"angleDeg,omitempty"`
	X        float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Spacing  float64 `yaml:"pupilSpacing,omitempty" json:"pupilSpacing,omitempty"`
}

// LoadFromFile reads path and returns an editable model.System. Every file
// parses as YAML whatever its extension, since YAML is a JSON superset —
// gopkg.in/yaml.v3 decodes both without a second code path.
func LoadFromFile(path string) (*model.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system spec: %w", err)
	}

	var doc specFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing system spec %s: %w", filepath.Base(path), err)
	}

	return toSystem(doc), nil
}

func toSystem(doc specFile) *model.System {
	sys := model.NewSystem()
	sys.Title = doc.Title
	if doc.Units != "" {
		sys.Units = doc.Units
	}

	surfaces := make([]model.Surface, len(doc.Surfaces))
	for i, s := range doc.Surfaces {
		surfaces[i] = toSurface(s)
	}
	sys.SetSurfaces(surfaces)

	gaps := make([]model.Gap, len(doc.Gaps))
	for i, g := range doc.Gaps {
		gaps[i] = toGap(g)
	}
	sys.SetGaps(gaps)

	sys.SetAperture(model.NewEntrancePupilAperture(doc.Aperture.SemiDiameter))

	fields := make([]model.Field, len(doc.Fields))
	for i, f := range doc.Fields {
		fields[i] = toField(f)
	}
	sys.SetFields(fields)

	wavelengths := make([]model.Wavelength, len(doc.Wavelengths))
	for i, w := range doc.Wavelengths {
		wavelengths[i] = model.Wavelength(w)
	}
	sys.SetWavelengths(wavelengths)

	return sys
}

func toSurface(s surfaceDoc) model.Surface {
	switch strings.ToLower(s.Kind) {
	case "object":
		return model.NewObjectSurface()
	case "image":
		return model.NewImageSurface()
	case "probe":
		return model.NewProbeSurface()
	case "stop":
		sd := 1.0
		if s.SemiDiameter != nil {
			sd = *s.SemiDiameter
		}
		return model.NewStopSurface(sd)
	case "conic":
		interaction := model.Refracting
		if strings.EqualFold(s.Interaction, "reflecting") {
			interaction = model.Reflecting
		}
		sd := 1.0
		if s.SemiDiameter != nil {
			sd = *s.SemiDiameter
		}
		surface := model.NewConicSurface(sd, s.RadiusOfCurvature, s.ConicConstant, interaction)
		surface.Comment = s.Comment
		if s.SemiDiameter == nil {
			surface.SemiDiameter = nil
		}
		return surface
	default:
		return model.Surface{}
	}
}

func toGap(g gapDoc) model.Gap {
	if g.CatalogKey != "" {
		return model.NewGap(g.Thickness, model.Material(g.CatalogKey))
	}
	index := g.Index
	if index == 0 {
		index = 1.0
	}
	return model.NewGap(g.Thickness, model.RefractiveIndex(index))
}

func toField(f fieldDoc) model.Field {
	sampling := model.NewSquareGridSampling(f.Spacing)
	if strings.EqualFold(f.Kind, "pointsource") {
		return model.NewPointSourceField(f.X, f.Y, sampling)
	}
	return model.NewAngleField(f.AngleDeg, sampling)
}
