package file

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/swerve/internal/dto"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/dsl"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a description document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Description is a decoded vehicle model, ready to build.
type Description struct {
	Name       string
	Epsilon    float64
	AllowReuse bool
	Specs      []model.NodeSpec // parents before children
}

// Options returns the graph options the document asks for.
func (d *Description) Options() []model.Option {
	var opts []model.Option
	if d.Epsilon > 0 {
		opts = append(opts, model.WithEpsilon(d.Epsilon))
	}
	if d.AllowReuse {
		opts = append(opts, model.WithIdentityReuse())
	}
	return opts
}

// Build creates the model graph. opts are applied after the document's own.
func (d *Description) Build(opts ...model.Option) (*model.Graph, error) {
	return model.Build(d.Specs, append(d.Options(), opts...)...)
}

// Load reads a description file (YAML or JSON).
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	desc, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return desc, nil
}

// Parse decodes a description document.
func Parse(data []byte, format Format) (*Description, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json description: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml description: %w", err)
		}
	}

	var doc dto.Description
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}

	specs, err := specsOf(doc.Frames)
	if err != nil {
		return nil, err
	}
	return &Description{
		Name:       doc.Name,
		Epsilon:    doc.Epsilon,
		AllowReuse: doc.AllowReuse,
		Specs:      specs,
	}, nil
}

func specsOf(frames []dto.Frame) ([]model.NodeSpec, error) {
	b := dsl.New()
	dims := make(map[string]int, len(frames))
	var errs []error

	for i, f := range frames {
		label := fmt.Sprintf("%q", f.ID)
		if f.ID == "" {
			label = fmt.Sprintf("#%d", i)
			errs = append(errs, &FieldError{Frame: label, Key: "id", Reason: "is required"})
			continue
		}
		if _, dup := dims[f.ID]; dup {
			errs = append(errs, fmt.Errorf("frame %s: %w", label, domain.ErrDuplicateIdentity))
			continue
		}

		dim := f.Dim
		if dim == 0 {
			dim = 3
			if pd, ok := dims[f.Parent]; ok {
				dim = pd
			}
		}
		dims[f.ID] = dim

		nb := b.Add(f.ID).Under(f.Parent)
		if f.Space != "" {
			nb.Space(f.Space)
		}
		switch dim {
		case 2:
			nb.Planar()
		case 3:
		default:
			errs = append(errs, &FieldError{Frame: label, Key: "dim", Reason: "must be 2 or 3", Value: f.Dim})
		}

		kind, err := domain.ParseBodyKind(f.Kind)
		if err != nil {
			errs = append(errs, &FieldError{Frame: label, Key: "kind", Reason: err.Error()})
		}
		if f.Mass < 0 {
			errs = append(errs, &FieldError{Frame: label, Key: "mass", Reason: "must not be negative", Value: f.Mass})
		}
		nb.Body(kind).Mass(f.Mass)

		if f.Translation != nil {
			nb.At(f.Translation...)
		}
		if err := orient(nb, f, label); err != nil {
			errs = append(errs, err)
		}

		if f.Joint != nil {
			dof, err := domain.ParseDof(f.Joint.Dof)
			if err != nil {
				errs = append(errs, &FieldError{Frame: label, Key: "joint.dof", Reason: err.Error()})
				continue
			}
			value := f.Joint.Value
			if dof.Revolute() {
				value = radians(value)
			}
			nb.Joint(dof, value)
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return b.Specs()
}

// orient applies whichever rotation form the frame uses. They are exclusive.
func orient(nb *dsl.NodeBuilder, f dto.Frame, label string) error {
	euler := f.Roll != 0 || f.Pitch != 0 || f.Yaw != 0
	forms := 0
	for _, set := range []bool{f.Rotation != nil, euler, f.Matrix != nil} {
		if set {
			forms++
		}
	}
	if forms > 1 {
		return &FieldError{Frame: label, Key: "rotation", Reason: "rotation, roll/pitch/yaw and matrix are exclusive"}
	}

	switch {
	case f.Rotation != nil:
		theta := radians(f.Rotation.Degrees)
		switch strings.ToLower(f.Rotation.Axis) {
		case "x":
			nb.Rotate(theta, 0, 0)
		case "y":
			nb.Rotate(0, theta, 0)
		case "z", "":
			nb.Yaw(theta)
		default:
			return &FieldError{Frame: label, Key: "rotation.axis", Reason: "must be x, y or z", Value: f.Rotation.Axis}
		}
	case euler:
		nb.Rotate(radians(f.Roll), radians(f.Pitch), radians(f.Yaw))
	case f.Matrix != nil:
		nb.Matrix(f.Matrix)
	}
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
