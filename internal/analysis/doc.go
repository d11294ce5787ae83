// Package analysis extracts periodic structure from recorded trajectories.
//
// The package includes:
//
//   - [FFT]: radix-2 discrete Fourier transform
//   - [PowerSpectrum]: one-sided magnitude spectrum of a real series
//   - [DominantPeriod]: period of the strongest non-zero frequency
//
// # Orbital Period
//
// For an orbit propagated at a fixed step, any position component oscillates
// at the orbital frequency:
//
//	period, err := analysis.DominantPeriod(xs, dt)
package analysis
