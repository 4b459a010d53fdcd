// Package geometry turns tooth counts into millimetres.
//
// It resolves a module from a target outer diameter, checks that planets
// can be assembled at even spacing and do not collide, computes carrier
// angles and the derived layout of a gearbox, and completes two-stack
// configurations whose stacks use different modules.
//
// Design decision: Module resolution returns errors wrapping
// ErrInvalidGeometry instead of clamping. During a search an unresolvable
// module only means the candidate is infeasible, and the engine decides what
// to do with it.
package geometry
