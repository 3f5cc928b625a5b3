// Package qssa simulates a six-channel reaction network with a Tsallis
// (q-generalized) stochastic simulation algorithm under a linear heating
// ramp.
//
// One step of a trajectory:
//
//   - [ArrheniusRates] turns the current temperature into rate coefficients
//   - [ComputePropensities] applies the q-deformed mass-action law
//   - [SelectReaction] draws the q-exponential waiting time and the channel
//   - [ApplyReaction] adds the channel's row of [Stoichiometry]
//
// [Engine] repeats that for shape steps; [Ensemble] runs Nc independent
// engines, each on its own random stream, and collects a [Dataset].
//
// # Thread Safety
//
// Engines are not safe for concurrent use. An Ensemble partitions random
// streams and output rows before running, so its workers share nothing.
package qssa
