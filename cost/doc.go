// Package cost turns a proposed lane transition into a non-negative scalar.
//
// The model is a normalized travel time, distance over the mean speed of
// the two lanes and the request's max length, shaped by:
//
//   - mode transitions (×TransitionMultiplier) and highway ramp boundaries (×RampMultiplier);
//   - vehicle bans on the segment (×HeavyBanMultiplier, ×CarBanMultiplier);
//   - avoid-direction lanes, driven at AvoidSpeed or AvoidPreferredSpeed;
//   - per-segment jitter in [0, JitterMax), seeded by search and segment;
//   - lane changes, quadratic in the normalized similar-index distance and
//     amplified just before a junction (ExitBias);
//   - live traffic density of both lanes;
//   - a small penalty for non-transit vehicles on transit lanes.
//
// All functions are pure; Params.Validate guarantees Compute ≥ 0 and that a
// penalty never lowers a cost below its distance term.
package cost
