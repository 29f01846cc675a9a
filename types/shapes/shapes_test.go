package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeBasics(t *testing.T) {
	s := Make(dtypes.Float32, 4, 3)
	assert.True(t, s.Ok())
	assert.False(t, s.IsTuple())
	assert.Equal(t, 2, s.Rank())
	assert.Equal(t, 12, s.Size())
	assert.Equal(t, 4, s.Dim(0))
	assert.Equal(t, 3, s.Dim(-1))
	assert.Equal(t, uintptr(12*4), s.Memory())
	assert.Equal(t, "(Float32)[4 3]", s.String())

	scalar := Scalar[float64]()
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, 1, scalar.Size())

	assert.False(t, Invalid().Ok())
	assert.False(t, Shape{}.Ok())

	// Dimensions must be positive.
	require.Panics(t, func() { Make(dtypes.Float32, 4, 0) })
	require.Panics(t, func() { s.Dim(2) })
}

func TestShapeEqual(t *testing.T) {
	s1 := Make(dtypes.Float32, 4)
	s2 := Make(dtypes.Float32, 4)
	assert.True(t, s1.Equal(s2))
	assert.False(t, s1.Equal(Make(dtypes.Float32, 8)))
	assert.False(t, s1.Equal(Make(dtypes.Float64, 4)))
	assert.False(t, s1.Equal(Make(dtypes.Float32, 4, 1)))

	// Scalars of the same dtype are equal.
	assert.True(t, Scalar[float32]().Equal(Make(dtypes.Float32)))

	// Independently constructed equal shapes must render to the same string.
	assert.Equal(t, s1.String(), s2.String())
	assert.NotEqual(t, s1.String(), Make(dtypes.Float32, 8).String())
}

func TestShapeTuple(t *testing.T) {
	tuple := MakeTuple([]Shape{Make(dtypes.Float32, 4), Make(dtypes.Int64, 2, 2)})
	assert.True(t, tuple.Ok())
	assert.True(t, tuple.IsTuple())
	assert.False(t, tuple.IsScalar())
	assert.Equal(t, 2, tuple.TupleSize())
	assert.Equal(t, "Tuple<(Float32)[4], (Int64)[2 2]>", tuple.String())

	tuple2 := MakeTuple([]Shape{Make(dtypes.Float32, 4), Make(dtypes.Int64, 2, 2)})
	assert.True(t, tuple.Equal(tuple2))
	assert.False(t, tuple.Equal(MakeTuple([]Shape{Make(dtypes.Float32, 4)})))
	assert.False(t, tuple.Equal(Make(dtypes.Float32, 4)))
}

func TestShapeClone(t *testing.T) {
	s := MakeTuple([]Shape{Make(dtypes.Float32, 4), Make(dtypes.Int8, 3)})
	c := s.Clone()
	require.True(t, s.Equal(c))
	c.TupleShapes[0].Dimensions[0] = 7
	assert.Equal(t, 4, s.TupleShapes[0].Dimensions[0])
}
