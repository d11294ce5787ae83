// Package integrators implements the stepping strategies a dynamo.Container
// or dynamo.Simulator can drive a System with.
//
// Explicit methods ([Euler], [RK4], [RK45]) only evaluate the right-hand
// side. [Verlet] and [Leapfrog] assume the state is laid out as all
// positions followed by all velocities, which holds for the orbital models.
// [Rosenbrock] is linearly implicit and uses the system Jacobian, analytic
// when available.
package integrators
