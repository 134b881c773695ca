// Package potential provides pairwise interaction models.
//
// Every model implements [Potential]: it overwrites the acceleration array
// for the current configuration and remembers the potential-energy and
// virial sums of that evaluation.
//
//   - [LennardJones]: truncated 12-6 interaction in reduced units
//   - [Free]: no interaction at all
//
// Particles have unit mass, so the computed force is the acceleration.
package potential
