package tanks

import (
	"math"
	"math/rand"
)

// TerrainWidth is the number of height columns, one per arena pixel.
const TerrainWidth = 1200

const (
	terrainMinHeight = 200.0
	terrainMaxHeight = 500.0
	terrainFloor     = 10.0
)

// Terrain is a destructible heightfield. Heights measure up from the
// arena floor; screen coordinates are ArenaHeight minus height.
type Terrain struct {
	Heights [TerrainWidth]float64
}

// Generate builds a rolling landscape from layered sine waves with
// random phase offsets, clamped to the playable band.
func (t *Terrain) Generate(rng *rand.Rand) {
	layers := []struct {
		amplitude float64
		frequency float64
		offset    float64
	}{
		{80, 0.002, rng.Float64() * 2 * math.Pi},
		{50, 0.005, rng.Float64() * 2 * math.Pi},
		{30, 0.012, rng.Float64() * 2 * math.Pi},
		{15, 0.025, rng.Float64() * 2 * math.Pi},
		{8, 0.05, rng.Float64() * 2 * math.Pi},
	}

	base := (terrainMinHeight + terrainMaxHeight) / 2
	for x := 0; x < TerrainWidth; x++ {
		h := base
		for _, l := range layers {
			h += l.amplitude * math.Sin(float64(x)*l.frequency+l.offset)
		}
		t.Heights[x] = math.Min(terrainMaxHeight, math.Max(terrainMinHeight, h))
	}
}

// Deform carves a circular crater centered on centerX, deepest in the
// middle, never below the bedrock floor.
func (t *Terrain) Deform(centerX, radius float64) {
	start := int(centerX - radius)
	if start < 0 {
		start = 0
	}
	end := int(centerX + radius)
	if end > TerrainWidth-1 {
		end = TerrainWidth - 1
	}

	for x := start; x <= end; x++ {
		dx := float64(x) - centerX
		if math.Abs(dx) < radius {
			depth := math.Sqrt(radius*radius - dx*dx)
			t.Heights[x] = math.Max(terrainFloor, t.Heights[x]-depth)
		}
	}
}

// HeightAt returns the linearly interpolated terrain height at x.
func (t *Terrain) HeightAt(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x >= TerrainWidth-1 {
		return t.Heights[TerrainWidth-1]
	}

	ix := int(x)
	frac := x - float64(ix)
	return t.Heights[ix]*(1-frac) + t.Heights[ix+1]*frac
}

// Serialize returns every 4th column rounded to one decimal; the client
// interpolates the rest. Keeps the wire payload small.
func (t *Terrain) Serialize() []float64 {
	count := (TerrainWidth + 3) / 4
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		out[i] = math.Round(t.Heights[i*4]*10) / 10
	}
	return out
}
