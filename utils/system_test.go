package utils

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestIsNan(t *testing.T) {
	assert.False(t, IsNan(1.0))
	assert.True(t, IsNan(math.NaN()))
	assert.True(t, IsNan([]float64{0, 1, math.NaN()}))
	assert.False(t, IsNan([]float64{0, 1, 2}))
	assert.True(t, IsNan([]r3.Vec{{X: 1}, {Y: math.NaN()}}))
	assert.False(t, IsNan(r3.Vec{X: 1, Y: 2, Z: 3}))
	assert.False(t, IsNan("not a number type"))
}

func TestOrDiscard(t *testing.T) {
	// Must not panic
	OrDiscard(nil).Printf("dropped %d", 1)

	var buf bytes.Buffer
	l := OrDiscard(log.New(&buf, "", 0))
	l.Printf("kept %d", 2)
	assert.Equal(t, "kept 2\n", buf.String())
	assert.Contains(t, GetMemUsage(), "Alloc")
}
