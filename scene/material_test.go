package scene

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/tracer"
	"github.com/wubugui/epsilon/types"
)

func testTable() *MaterialTable {
	return NewMaterialTable([]Material{
		{}, // ambient
		{Reflectance: 0.8},
		{RefractiveIndex: 1.5},
		{Emission: 4.5},
		{Absorption: 2.0, ScatterAlbedo: 0.9},
	})
}

func TestAmbientEntryInserted(t *testing.T) {
	table := NewMaterialTable(nil)
	if table.Count() != 1 {
		t.Fatalf("expected an ambient entry to be inserted; got %d entries", table.Count())
	}
	if table.AbsorptionCoeff(AmbientMedium, 550) != 0 {
		t.Fatal("expected the ambient medium to be non-participating")
	}
}

func TestDiffuseTransfer(t *testing.T) {
	table := testTable()
	rng := tracer.NewSampler(0, 42)
	in := types.Vec3{0.3, -0.2, -0.93}

	for i := 0; i < 100; i++ {
		out, weight := table.Transfer(AmbientMedium, 1, 550, in, rng)
		if out[2] <= 0 {
			t.Fatalf("[draw %d] expected diffuse reflection to stay in the upper hemisphere; got %v", i, out)
		}
		if math32.Abs(out.Len()-1) > 1e-4 {
			t.Fatalf("[draw %d] expected unit outgoing direction; got length %f", i, out.Len())
		}
		if weight != 0.8 {
			t.Fatalf("[draw %d] expected reflectance weight 0.8; got %f", i, weight)
		}
	}
}

func TestDielectricTransfer(t *testing.T) {
	table := testTable()
	rng := tracer.NewSampler(1, 42)
	in := types.Vec3{0.2, 0.1, -0.9746794}

	var reflections, transmissions int
	for i := 0; i < 500; i++ {
		out, weight := table.Transfer(AmbientMedium, 2, 550, in, rng)
		if weight <= 0 || weight > 1 {
			t.Fatalf("[draw %d] expected weight in (0,1]; got %f", i, weight)
		}
		if math32.Abs(out.Len()-1) > 1e-3 {
			t.Fatalf("[draw %d] expected unit outgoing direction; got length %f", i, out.Len())
		}
		if out[2] > 0 {
			reflections++
			// Mirror reflection preserves the tangential components
			if !types.ApproxEqual(out, types.Vec3{in[0], in[1], -in[2]}, 1e-6) {
				t.Fatalf("[draw %d] expected mirror direction; got %v", i, out)
			}
		} else {
			transmissions++
		}
	}

	// At near-normal incidence on glass most samples must transmit
	if transmissions <= reflections {
		t.Fatalf("expected transmissions to dominate; got %d transmissions, %d reflections", transmissions, reflections)
	}
}

func TestVolumeScatter(t *testing.T) {
	table := testTable()
	rng := tracer.NewSampler(2, 42)

	for i := 0; i < 100; i++ {
		dir, weight := table.ScatterVolume(4, 550, rng)
		if math32.Abs(dir.Len()-1) > 1e-4 {
			t.Fatalf("[draw %d] expected unit scatter direction; got length %f", i, dir.Len())
		}
		if weight != 0.9 {
			t.Fatalf("[draw %d] expected scatter albedo 0.9; got %f", i, weight)
		}
	}
}

func TestEmission(t *testing.T) {
	table := testTable()
	rng := tracer.NewSampler(3, 42)

	if got := table.Emission(3, 550, types.Vec3{0, 0, -1}, rng); got != 4.5 {
		t.Fatalf("expected emission 4.5; got %f", got)
	}
	if got := table.Emission(1, 550, types.Vec3{0, 0, -1}, rng); got != 0 {
		t.Fatalf("expected no emission; got %f", got)
	}
}
