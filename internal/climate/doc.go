// Package climate implements a zero-dimensional energy balance model
// for studying Snowball Earth conditions.
//
// The model balances sphere-averaged absorbed solar radiation against
// outgoing longwave emission, with two temperature feedbacks:
//
//   - ice-albedo: albedo rises from 0.3 (open water) to 0.6 (ice)
//     through a tanh transition centered at the freezing point
//   - greenhouse: effective emissivity increases weakly with
//     temperature, clipped to [0.5, 0.8]
//
// A [Model] is a pure value built from [Params]; independent models
// (different planets) coexist freely. Zero-crossings of
// [Model.Balance] are the climate equilibria.
package climate
