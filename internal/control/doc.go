// Package control provides open-loop control laws for the orbital models.
//
// Controllers implement the [dynamo.Controller] interface; the control
// vector is an acceleration (Orbit) or force (RotatingEarth3DoF) in ECI:
//
//   - [None]: zero control
//   - [Constant]: a fixed vector, settable between steps
//   - [Prograde]: thrust along the velocity vector inside a burn window
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
