package space

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/aretw0/swerve/pkg/domain"
	"gonum.org/v1/gonum/mat"
)

// orthoTolerance bounds how far R*Rᵀ may drift from identity before a
// rotation is rejected. Hand-written descriptions carry rounded values.
const orthoTolerance = 1e-6

// Transform is a rigid (rotation + translation) mapping between two spaces
// of the same dimensionality, held as an (n+1)x(n+1) homogeneous matrix.
//
// A Transform is immutable once built: no method hands out the backing
// matrix, so values can be shared across goroutines without copying.
// The zero Transform is invalid and has Dim 0.
type Transform struct {
	dim Dim
	h   *mat.Dense
}

func homogeneous(dim Dim, rot []float64, trans []float64) *mat.Dense {
	n := int(dim)
	h := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			h.Set(i, j, rot[i*n+j])
		}
		h.Set(i, n, trans[i])
	}
	h.Set(n, n, 1)
	return h
}

func eye(n int) []float64 {
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return data
}

// Identity returns the transform that leaves every point in place.
func Identity(dim Dim) Transform {
	return Transform{dim: dim, h: homogeneous(dim, eye(int(dim)), make([]float64, int(dim)))}
}

// checkFinite rejects NaN and infinite components.
func checkFinite(op string, v ...float64) error {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %s has non-finite component %v", domain.ErrInvalidTransform, op, c)
		}
	}
	return nil
}

// Translation returns a pure translation. The number of components picks
// the dimensionality.
func Translation(v ...float64) (Transform, error) {
	dim := Dim(len(v))
	if !dim.Valid() {
		return Transform{}, &domain.DimensionError{Op: "translation", Want: int(Spatial), Got: len(v)}
	}
	if err := checkFinite("translation", v...); err != nil {
		return Transform{}, err
	}
	return Transform{dim: dim, h: homogeneous(dim, eye(len(v)), v)}, nil
}

// Rotation2D returns a planar rotation by theta radians.
func Rotation2D(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return Transform{dim: Planar, h: homogeneous(Planar, []float64{c, -s, s, c}, []float64{0, 0})}
}

// RotationX returns a spatial rotation of theta radians about the X axis.
func RotationX(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return Transform{dim: Spatial, h: homogeneous(Spatial, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}, []float64{0, 0, 0})}
}

// RotationY returns a spatial rotation of theta radians about the Y axis.
func RotationY(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return Transform{dim: Spatial, h: homogeneous(Spatial, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}, []float64{0, 0, 0})}
}

// RotationZ returns a spatial rotation of theta radians about the Z axis.
func RotationZ(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return Transform{dim: Spatial, h: homogeneous(Spatial, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}, []float64{0, 0, 0})}
}

// Revolute returns a rotation of theta radians about the given axis
// (0=X, 1=Y, 2=Z). Planar frames only rotate about Z.
func Revolute(dim Dim, axis int, theta float64) (Transform, error) {
	if err := checkFinite("rotation angle", theta); err != nil {
		return Transform{}, err
	}
	switch {
	case dim == Planar && axis == 2:
		return Rotation2D(theta), nil
	case dim == Spatial && axis == 0:
		return RotationX(theta), nil
	case dim == Spatial && axis == 1:
		return RotationY(theta), nil
	case dim == Spatial && axis == 2:
		return RotationZ(theta), nil
	}
	return Transform{}, &domain.DimensionError{Op: fmt.Sprintf("rotation about axis %d", axis), Want: int(Spatial), Got: int(dim)}
}

// Prismatic returns a translation of d along the given axis.
func Prismatic(dim Dim, axis int, d float64) (Transform, error) {
	if !dim.Valid() || axis < 0 || axis >= int(dim) {
		return Transform{}, &domain.DimensionError{Op: fmt.Sprintf("translation along axis %d", axis), Want: int(Spatial), Got: int(dim)}
	}
	v := make([]float64, int(dim))
	v[axis] = d
	return Translation(v...)
}

// FromEuler builds a spatial transform from roll (X), pitch (Y) and yaw (Z)
// angles in radians, applied as Rz*Ry*Rx, followed by translation t.
// Non-finite inputs yield a transform that Validate rejects.
func FromEuler(roll, pitch, yaw float64, t [3]float64) Transform {
	var zy, r mat.Dense
	zy.Mul(RotationZ(yaw).h, RotationY(pitch).h)
	r.Mul(&zy, RotationX(roll).h)
	for i := 0; i < 3; i++ {
		r.Set(i, 3, t[i])
	}
	return Transform{dim: Spatial, h: &r}
}

// FromRotationTranslation builds a transform from a row-major rotation
// matrix and a translation vector. The rotation must be square, match the
// translation length, be orthonormal and preserve handedness.
func FromRotationTranslation(rot [][]float64, trans []float64) (Transform, error) {
	dim := Dim(len(trans))
	if !dim.Valid() {
		return Transform{}, &domain.DimensionError{Op: "translation", Want: int(Spatial), Got: len(trans)}
	}
	n := int(dim)
	if len(rot) != n {
		return Transform{}, &domain.DimensionError{Op: "rotation rows", Want: n, Got: len(rot)}
	}
	flat := make([]float64, 0, n*n)
	for _, row := range rot {
		if len(row) != n {
			return Transform{}, &domain.DimensionError{Op: "rotation columns", Want: n, Got: len(row)}
		}
		flat = append(flat, row...)
	}
	if err := checkFinite("rotation", flat...); err != nil {
		return Transform{}, err
	}
	if err := checkFinite("translation", trans...); err != nil {
		return Transform{}, err
	}

	r := mat.NewDense(n, n, flat)
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	if !mat.EqualApprox(&rrt, mat.NewDense(n, n, eye(n)), orthoTolerance) {
		return Transform{}, fmt.Errorf("%w: rotation is not orthonormal", domain.ErrInvalidTransform)
	}
	if mat.Det(r) <= 0 {
		return Transform{}, fmt.Errorf("%w: rotation is a reflection", domain.ErrInvalidTransform)
	}
	return Transform{dim: dim, h: homogeneous(dim, flat, trans)}, nil
}

// Dim returns the dimensionality the transform operates in.
func (t Transform) Dim() Dim { return t.dim }

// IsZero reports whether t is the invalid zero value.
func (t Transform) IsZero() bool { return t.h == nil }

// At returns the element at row i, column j of the homogeneous matrix.
func (t Transform) At(i, j int) float64 { return t.h.At(i, j) }

// Rotation returns a copy of the rotation block, row-major.
func (t Transform) Rotation() [][]float64 {
	n := int(t.dim)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = t.h.At(i, j)
		}
	}
	return rows
}

// TranslationVector returns a copy of the translation column.
func (t Transform) TranslationVector() []float64 {
	n := int(t.dim)
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = t.h.At(i, n)
	}
	return v
}

// Matrix returns a copy of the homogeneous matrix.
func (t Transform) Matrix() *mat.Dense {
	return mat.DenseCopyOf(t.h)
}

// HasTranslation reports whether any translation component exceeds eps.
func (t Transform) HasTranslation(eps float64) bool {
	for _, c := range t.TranslationVector() {
		if math.Abs(c) > eps {
			return true
		}
	}
	return false
}

// Validate reports whether t is a proper rigid transform: every element
// finite, the rotation block orthonormal with determinant +1 and the
// bottom row (0 ... 0 1).
func (t Transform) Validate() error {
	if err := t.valid("validate"); err != nil {
		return err
	}
	n := int(t.dim)
	if err := checkFinite("matrix", t.h.RawMatrix().Data...); err != nil {
		return err
	}
	for j := 0; j < n; j++ {
		if t.h.At(n, j) != 0 {
			return fmt.Errorf("%w: bottom row is not homogeneous", domain.ErrInvalidTransform)
		}
	}
	if t.h.At(n, n) != 1 {
		return fmt.Errorf("%w: bottom row is not homogeneous", domain.ErrInvalidTransform)
	}
	r := t.h.Slice(0, n, 0, n)
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	if !mat.EqualApprox(&rrt, mat.NewDense(n, n, eye(n)), orthoTolerance) {
		return fmt.Errorf("%w: rotation is not orthonormal", domain.ErrInvalidTransform)
	}
	if mat.Det(r) <= 0 {
		return fmt.Errorf("%w: rotation is a reflection", domain.ErrInvalidTransform)
	}
	return nil
}

func (t Transform) valid(op string) error {
	if t.h == nil || !t.dim.Valid() {
		return fmt.Errorf("%s: %w: zero transform", op, domain.ErrInvalidTransform)
	}
	return nil
}

// Compose chains two transforms: the result applies inner first, then outer.
func Compose(outer, inner Transform) (Transform, error) {
	if err := outer.valid("compose"); err != nil {
		return Transform{}, err
	}
	if err := inner.valid("compose"); err != nil {
		return Transform{}, err
	}
	if outer.dim != inner.dim {
		return Transform{}, &domain.DimensionError{Op: "compose", Want: int(outer.dim), Got: int(inner.dim)}
	}
	var m mat.Dense
	m.Mul(outer.h, inner.h)
	return Transform{dim: outer.dim, h: &m}, nil
}

// Invert returns the reverse mapping of a rigid transform: (Rᵀ, -Rᵀt).
func Invert(t Transform) (Transform, error) {
	if err := t.valid("invert"); err != nil {
		return Transform{}, err
	}
	n := int(t.dim)
	rt := t.h.Slice(0, n, 0, n).T()

	var back mat.VecDense
	back.MulVec(rt, mat.NewVecDense(n, t.TranslationVector()))
	back.ScaleVec(-1, &back)

	flat := make([]float64, 0, n*n)
	trans := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			flat = append(flat, rt.At(i, j))
		}
		trans[i] = back.AtVec(i)
	}
	return Transform{dim: t.dim, h: homogeneous(t.dim, flat, trans)}, nil
}

// Apply maps point p through t.
func Apply(t Transform, p []float64) ([]float64, error) {
	if err := t.valid("apply"); err != nil {
		return nil, err
	}
	n := int(t.dim)
	if len(p) != n {
		return nil, &domain.DimensionError{Op: "apply", Want: n, Got: len(p)}
	}
	in := make([]float64, n+1)
	copy(in, p)
	in[n] = 1

	var out mat.VecDense
	out.MulVec(t.h, mat.NewVecDense(n+1, in))

	res := make([]float64, n)
	for i := range res {
		res[i] = out.AtVec(i)
	}
	return res, nil
}

// EqualApprox reports whether a and b have the same dimensionality and
// every matrix element agrees within eps.
func EqualApprox(a, b Transform, eps float64) bool {
	if a.dim != b.dim || a.h == nil || b.h == nil {
		return false
	}
	return mat.EqualApprox(a.h, b.h, eps)
}

func (t Transform) String() string {
	if t.h == nil {
		return "Transform{}"
	}
	return fmt.Sprintf("Transform%s{R: %v, t: %v}", t.dim, t.Rotation(), t.TranslationVector())
}

type transformJSON struct {
	Dim         int         `json:"dim"`
	Rotation    [][]float64 `json:"rotation"`
	Translation []float64   `json:"translation"`
}

// MarshalJSON encodes the rotation rows and translation column.
func (t Transform) MarshalJSON() ([]byte, error) {
	if t.h == nil {
		return []byte("null"), nil
	}
	return json.Marshal(transformJSON{
		Dim:         int(t.dim),
		Rotation:    t.Rotation(),
		Translation: t.TranslationVector(),
	})
}

// UnmarshalJSON decodes and validates a transform.
func (t *Transform) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Transform{}
		return nil
	}
	var raw transformJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Dim != len(raw.Translation) {
		return &domain.DimensionError{Op: "decode transform", Want: raw.Dim, Got: len(raw.Translation)}
	}
	parsed, err := FromRotationTranslation(raw.Rotation, raw.Translation)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
