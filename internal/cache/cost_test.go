package cache

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost_Bytes(t *testing.T) {
	assert.Equal(t, int64(entryOverhead+128), EstimateCost(make([]byte, 128)))
}

func TestEstimateCost_String(t *testing.T) {
	assert.Equal(t, int64(entryOverhead+5), EstimateCost("hello"))
}

func TestEstimateCost_Image(t *testing.T) {
	// Raw bitmap heuristic: width * height * 4 bytes.
	img := image.NewRGBA(image.Rect(0, 0, 10, 20))
	assert.Equal(t, int64(entryOverhead+10*20*4), EstimateCost(img))
}

func TestEstimateCost_Slice(t *testing.T) {
	prices := make([]float64, 100)
	assert.Equal(t, int64(entryOverhead+100*8), EstimateCost(prices))
}

func TestEstimateCost_SliceOfStrings(t *testing.T) {
	names := make([]string, 10)
	assert.Equal(t, int64(entryOverhead+10*32), EstimateCost(names))
}

func TestEstimateCost_Map(t *testing.T) {
	m := map[string]int64{"a": 1, "b": 2}
	assert.Equal(t, int64(entryOverhead+2*(32+8)), EstimateCost(m))
}

func TestEstimateCost_Nil(t *testing.T) {
	assert.Equal(t, int64(entryOverhead), EstimateCost(nil))
}

func TestEstimateCost_GrowsWithLength(t *testing.T) {
	small := EstimateCost(make([]int32, 10))
	large := EstimateCost(make([]int32, 1000))
	assert.Greater(t, large, small)
}
