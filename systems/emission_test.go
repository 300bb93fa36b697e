package systems

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/gfx"
	"github.com/pthm-cable/sparks/particles"
)

func spawnStream(t *testing.T, w *ecs.World, dev gfx.Device, name string, enabled bool, interval float32) *particles.RingBuffer {
	t.Helper()
	ring, err := particles.NewRingBuffer(dev, 16)
	if err != nil {
		t.Fatal(err)
	}
	params := particles.EmitterParams{
		Interval: interval,
		Size:     particles.Fixed(4),
		Duration: particles.Fixed(1),
		Color:    [4]particles.Range{particles.Fixed(1), particles.Fixed(1), particles.Fixed(1), particles.Fixed(1)},
	}
	em := particles.NewEmitter(name, params, ring, &particles.SeqRand{Values: []float32{0.5}})

	mapper := ecs.NewMap3[components.Source, components.Spawner, components.Stream](w)
	mapper.NewEntity(
		&components.Source{ID: uuid.New(), Name: name, Enabled: enabled},
		&components.Spawner{Emitter: em},
		&components.Stream{Ring: ring},
	)
	return ring
}

func TestEmissionSystemRespectsInterval(t *testing.T) {
	w := ecs.NewWorld()
	dev := gfx.NewMemDevice()
	ring := spawnStream(t, w, dev, "sparks", true, 0.2)
	sys := NewEmissionSystem(w)

	total := 0
	for _, now := range []float32{0, 0.1, 0.2, 0.3, 0.45} {
		total += len(sys.Update(now))
	}
	if total != 3 {
		t.Errorf("expected 3 emissions, got %d", total)
	}
	if ring.LiveCount() != 3 {
		t.Errorf("expected 3 live slots, got %d", ring.LiveCount())
	}
}

func TestEmissionSystemSkipsDisabled(t *testing.T) {
	w := ecs.NewWorld()
	dev := gfx.NewMemDevice()
	sparks := spawnStream(t, w, dev, "sparks", true, 0)
	smoke := spawnStream(t, w, dev, "smoke", false, 0)
	sys := NewEmissionSystem(w)

	events := sys.Update(1)
	if len(events) != 1 || events[0].Source != "sparks" {
		t.Fatalf("expected one sparks emission, got %+v", events)
	}
	if events[0].Record.Birth != 1 {
		t.Errorf("expected birth 1, got %f", events[0].Record.Birth)
	}
	if sparks.LiveCount() != 1 || smoke.LiveCount() != 0 {
		t.Errorf("unexpected live counts: sparks=%d smoke=%d", sparks.LiveCount(), smoke.LiveCount())
	}
}

func TestEmissionSystemReportsUploadError(t *testing.T) {
	w := ecs.NewWorld()
	dev := gfx.NewMemDevice()
	ring := spawnStream(t, w, dev, "sparks", true, 0)
	sys := NewEmissionSystem(w)

	ring.Release()
	events := sys.Update(0)
	if len(events) != 1 {
		t.Fatalf("expected one emission, got %d", len(events))
	}
	if events[0].Err == nil {
		t.Error("expected upload error after release")
	}
}

func TestSystemRegistry(t *testing.T) {
	reg := NewSystemRegistry()
	if len(reg.All()) != 5 {
		t.Fatalf("expected 5 phases, got %d", len(reg.All()))
	}
	if reg.GetName("emission") != "Emission" {
		t.Errorf("unexpected name %q", reg.GetName("emission"))
	}
	if reg.GetName("unknown") != "unknown" {
		t.Error("unknown IDs should fall back to the ID")
	}
	if reg.IDs()[0] != "emission" {
		t.Errorf("expected emission first, got %v", reg.IDs())
	}
}
