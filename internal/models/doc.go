// Package models provides complete right-hand sides for dynamo.
//
//   - [Orbit]: point mass in the J2 field, state [x y z vx vy vz] in ECI
//   - [RotatingEarth3DoF]: fixed-mass vehicle over the rotating WGS84 Earth
//     with J2 gravity and drag in the US1976 atmosphere
//   - [FirstOrderLag]: low-pass element with input and output slots
//
// Every model resets to documented defaults and implements
// [dynamo.Configurable] for parameter overrides.
package models
