package space_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func mustTranslation(t *testing.T, v ...float64) space.Transform {
	t.Helper()
	tr, err := space.Translation(v...)
	require.NoError(t, err)
	return tr
}

func mustCompose(t *testing.T, outer, inner space.Transform) space.Transform {
	t.Helper()
	c, err := space.Compose(outer, inner)
	require.NoError(t, err)
	return c
}

func sampleTransforms(t *testing.T) map[string]space.Transform {
	return map[string]space.Transform{
		"identity3":   space.Identity(space.Spatial),
		"translation": mustTranslation(t, 0.3, 0.2, -0.1),
		"rotZ":        space.RotationZ(math.Pi / 2),
		"rotX":        space.RotationX(0.7),
		"euler":       space.FromEuler(0.1, -0.4, 2.5, [3]float64{1, -2, 0.5}),
		"rigid":       mustCompose(t, mustTranslation(t, 1, 2, 3), space.RotationY(-1.2)),
	}
}

func TestApply_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		tr    space.Transform
		point []float64
		want  []float64
	}{
		{"Identity", space.Identity(space.Spatial), []float64{1, 2, 3}, []float64{1, 2, 3}},
		{"Translation", mustTranslation(t, 0.3, 0.2, 0), []float64{1, 1, 1}, []float64{1.3, 1.2, 1}},
		{"Quarter Turn Z", space.RotationZ(math.Pi / 2), []float64{1, 0, 0}, []float64{0, 1, 0}},
		{"Quarter Turn X", space.RotationX(math.Pi / 2), []float64{0, 1, 0}, []float64{0, 0, 1}},
		{"Quarter Turn Y", space.RotationY(math.Pi / 2), []float64{0, 0, 1}, []float64{1, 0, 0}},
		{"Planar Half Turn", space.Rotation2D(math.Pi), []float64{2, 0}, []float64{-2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := space.Apply(tt.tr, tt.point)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, eps)
		})
	}
}

func TestCompose_AppliesInnerFirst(t *testing.T) {
	rot := space.RotationZ(math.Pi / 2)
	shift := mustTranslation(t, 1, 0, 0)

	// Rotate then shift: (1,0,0) -> (0,1,0) -> (1,1,0)
	c := mustCompose(t, shift, rot)
	got, err := space.Apply(c, []float64{1, 0, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 0}, got, eps)

	// Shift then rotate: (1,0,0) -> (2,0,0) -> (0,2,0)
	c = mustCompose(t, rot, shift)
	got, err = space.Apply(c, []float64{1, 0, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2, 0}, got, eps)
}

func TestCompose_Associative(t *testing.T) {
	ts := sampleTransforms(t)
	a, b, c := ts["euler"], ts["rigid"], ts["rotX"]

	left := mustCompose(t, mustCompose(t, a, b), c)
	right := mustCompose(t, a, mustCompose(t, b, c))
	assert.True(t, space.EqualApprox(left, right, eps), "left=%v right=%v", left, right)
}

func TestInvert_RoundTrip(t *testing.T) {
	points := [][]float64{{0, 0, 0}, {1, 0, 0}, {-3.5, 2, 7}, {1e3, -1e3, 0.25}}

	for name, tr := range sampleTransforms(t) {
		t.Run(name, func(t *testing.T) {
			inv, err := space.Invert(tr)
			require.NoError(t, err)

			for _, p := range points {
				fwd, err := space.Apply(tr, p)
				require.NoError(t, err)
				back, err := space.Apply(inv, fwd)
				require.NoError(t, err)
				assert.InDeltaSlice(t, p, back, 1e-9*math.Max(1, math.Abs(p[0])+math.Abs(p[1])+math.Abs(p[2])))
			}

			assert.True(t, space.EqualApprox(mustCompose(t, inv, tr), space.Identity(space.Spatial), eps))
		})
	}
}

func TestDimensionMismatch(t *testing.T) {
	planar := space.Rotation2D(0.3)
	spatial := space.RotationZ(0.3)

	_, err := space.Compose(spatial, planar)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	var dimErr *domain.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Want)
	assert.Equal(t, 2, dimErr.Got)

	_, err = space.Apply(spatial, []float64{1, 2})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = space.Apply(planar, []float64{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = space.Translation(1, 2, 3, 4)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = space.Revolute(space.Planar, 0, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestZeroTransformRejected(t *testing.T) {
	var zero space.Transform
	assert.True(t, zero.IsZero())

	_, err := space.Invert(zero)
	assert.ErrorIs(t, err, domain.ErrInvalidTransform)

	_, err = space.Compose(zero, space.Identity(space.Spatial))
	assert.ErrorIs(t, err, domain.ErrInvalidTransform)
}

func TestNonFiniteRejected(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)

	t.Run("Constructors", func(t *testing.T) {
		_, err := space.Translation(nan, 0, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)

		_, err = space.Prismatic(space.Spatial, 0, -inf)
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)

		_, err = space.Revolute(space.Spatial, 2, inf)
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)

		_, err = space.FromRotationTranslation([][]float64{{1, 0}, {0, 1}}, []float64{inf, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)

		_, err = space.FromRotationTranslation([][]float64{{nan, 0}, {0, 1}}, []float64{0, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)
	})

	t.Run("Validate", func(t *testing.T) {
		for name, tr := range sampleTransforms(t) {
			assert.NoError(t, tr.Validate(), name)
		}
		assert.ErrorIs(t, space.RotationZ(nan).Validate(), domain.ErrInvalidTransform)
		assert.ErrorIs(t, space.FromEuler(0, 0, 0, [3]float64{0, inf, 0}).Validate(), domain.ErrInvalidTransform)
		assert.ErrorIs(t, space.Transform{}.Validate(), domain.ErrInvalidTransform)
	})
}

func TestFromRotationTranslation(t *testing.T) {
	t.Run("Valid Rotation", func(t *testing.T) {
		tr, err := space.FromRotationTranslation([][]float64{
			{0, -1, 0},
			{1, 0, 0},
			{0, 0, 1},
		}, []float64{0.3, 0.2, 0})
		require.NoError(t, err)
		want := mustCompose(t, mustTranslation(t, 0.3, 0.2, 0), space.RotationZ(math.Pi/2))
		assert.True(t, space.EqualApprox(want, tr, eps))
	})

	t.Run("Scaled Matrix", func(t *testing.T) {
		_, err := space.FromRotationTranslation([][]float64{{2, 0}, {0, 2}}, []float64{0, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)
	})

	t.Run("Reflection", func(t *testing.T) {
		_, err := space.FromRotationTranslation([][]float64{{1, 0}, {0, -1}}, []float64{0, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidTransform)
	})

	t.Run("Ragged Rows", func(t *testing.T) {
		_, err := space.FromRotationTranslation([][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}, []float64{0, 0, 0})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestTransform_JSON(t *testing.T) {
	original := space.FromEuler(0.2, 0.1, -0.3, [3]float64{1, 2, 3})

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dim":3`)

	var decoded space.Transform
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, space.EqualApprox(original, decoded, 1e-12))

	err = json.Unmarshal([]byte(`{"dim":2,"rotation":[[1,0],[0,1]],"translation":[1,2,3]}`), &decoded)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestAccessorsReturnCopies(t *testing.T) {
	tr := mustTranslation(t, 1, 2, 3)

	v := tr.TranslationVector()
	v[0] = 99
	r := tr.Rotation()
	r[0][0] = 99
	m := tr.Matrix()
	m.Set(0, 0, 99)

	assert.Equal(t, []float64{1, 2, 3}, tr.TranslationVector())
	assert.Equal(t, 1.0, tr.At(0, 0))
	assert.True(t, tr.HasTranslation(eps))
	assert.False(t, space.RotationZ(1).HasTranslation(eps))
}
