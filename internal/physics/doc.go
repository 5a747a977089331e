// Package physics computes the forces acting between bodies.
//
// Two contributions are summed for every unordered pair of bodies:
//
//   - gravity, G·mA·mB/d², attracting the pair along the line of centers
//   - a penalty force, min(mA, mB)·overlap, pushing overlapping circles apart
//
// Each pair is evaluated once and applied with equal and opposite signs, so
// the accumulation step satisfies Newton's third law exactly. Pairs at zero
// distance are skipped.
//
// The package also provides the diagnostic quantities (energy, momentum,
// center of mass) reported by the metrics package:
//
//	fm := physics.NewForceModel()
//	fm.Accumulate(bodies, recipients)
//	e := physics.TotalEnergy(bodies, fm.G)
package physics
