// Package analysis extracts periodic structure from recorded trajectories.
//
//	period, err := analysis.DominantPeriod(rec.Series(1, "x"), dt)
//
// Orbits show up as a single strong peak in the power spectrum of either
// coordinate of the orbiting body.
package analysis
