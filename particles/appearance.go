package particles

// Visual is the draw-time state of a particle. The spark vertex shader
// computes the same values on the GPU; this is the CPU reference used by
// tests and tooling.
type Visual struct {
	Age      float32
	Position [2]float32
	Size     float32
	Alpha    float32
	Alive    bool
}

// Life returns the remaining life fraction: 1 at birth, 0 at and after
// age == duration, and 0 before birth.
func Life(age, duration float32) float32 {
	if age < 0 || duration <= 0 {
		return 0
	}
	f := 1 - age/duration
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Appearance evaluates a record at time now under vertical gravity.
// It must stay in sync with shaders/sparks.vs.
func Appearance(rec Record, now, gravity float32) Visual {
	age := now - rec.Birth
	life := Life(age, rec.Duration)

	t := age
	if t < 0 {
		t = 0
	}
	return Visual{
		Age: age,
		Position: [2]float32{
			rec.Position[0] + rec.Velocity[0]*t,
			rec.Position[1] + rec.Velocity[1]*t + 0.5*gravity*t*t,
		},
		Size:  rec.Size * life,
		Alpha: rec.Color[3] * life,
		Alive: age >= 0 && age <= rec.Duration,
	}
}
