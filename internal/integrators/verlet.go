package integrators

import "github.com/san-kum/astrodyn/internal/dynamo"

// split returns the position and velocity halves of a second-order state.
func split(x dynamo.State) (pos, vel dynamo.State) {
	half := len(x) / 2
	return x[:half], x[half:]
}

// Verlet is velocity Verlet: a full position drift using the starting
// acceleration, then a velocity update with the mean of the old and new
// accelerations. Energy error stays bounded on conservative orbits.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	if len(v.scratch) != len(x) {
		v.scratch = make(dynamo.State, len(x))
	}
	pos, vel := split(x)
	_, acc := split(dyn.Derive(x, u, t))

	next := make(dynamo.State, len(x))
	nextPos, nextVel := split(next)
	for i := range pos {
		nextPos[i] = pos[i] + dt*vel[i] + 0.5*dt*dt*acc[i]
	}

	sPos, sVel := split(v.scratch)
	copy(sPos, nextPos)
	copy(sVel, vel)
	_, accNew := split(dyn.Derive(v.scratch, u, t+dt))

	for i := range pos {
		nextVel[i] = vel[i] + 0.5*dt*(acc[i]+accNew[i])
	}
	return next
}

// Leapfrog is the kick-drift-kick form: half a velocity kick, a full drift
// at the midpoint velocity, then the second half kick.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	if len(l.scratch) != len(x) {
		l.scratch = make(dynamo.State, len(x))
	}
	pos, vel := split(x)
	_, acc := split(dyn.Derive(x, u, t))

	sPos, sVel := split(l.scratch)
	for i := range pos {
		sVel[i] = vel[i] + 0.5*dt*acc[i]
		sPos[i] = pos[i] + dt*sVel[i]
	}
	_, accNew := split(dyn.Derive(l.scratch, u, t+dt))

	next := make(dynamo.State, len(x))
	nextPos, nextVel := split(next)
	copy(nextPos, sPos)
	for i := range pos {
		nextVel[i] = sVel[i] + 0.5*dt*accNew[i]
	}
	return next
}
