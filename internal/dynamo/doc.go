// Package dynamo provides the dynamic-state primitives shared by every
// propagator in astrodyn.
//
//   - [State]: vector representing system state
//   - [System]: right-hand side dX/dt = f(X, u, t), optionally with an
//     analytic Jacobian ([JacobianSystem])
//   - [Integrator]: numerical stepping strategy
//   - [Container]: owns one state vector, exposes named [Slot] accessors and
//     steps it with an Integrator
//   - [Simulator]: runs a System over a time span and records the history
//
// # Example
//
//	orbit := models.NewOrbit()
//	c, _ := dynamo.NewContainer(orbit, integrators.NewRK4(), nil, "x", "y", "z", "vx", "vy", "vz")
//	c.Step(10)
//	alt := c.MustSlot("z").Get()
//
// # Thread Safety
//
// Containers and Simulators are NOT thread-safe. Each goroutine must own its
// instances; [Ensemble] builds one Simulator per run.
package dynamo
