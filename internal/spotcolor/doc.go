// Package spotcolor decides whether uploaded artwork can be printed with
// spot colours and, when it cannot, reduces it to a small number of solid inks.
//
// Two operations are exposed through Engine:
//   - Classify: counts every pixel's colour, detects background colours from a
//     band sampled around the image border, greedily groups perceptually
//     similar colours and classifies the image as spot-color, gradient or
//     full-color.
//   - Simplify: detects the edge background, clusters the remaining colours
//     and re-renders every pixel to the nearest of the K most significant
//     cluster colours, returning a losslessly encoded image.
//
// Prepare chains both: classify the original, simplify when needed, and
// re-classify the result in pre-simplified mode.
//
// # Colour Distance
//
// Distances are weighted Euclidean distances over 8-bit RGB:
//
//	d = sqrt(wR*(R1-R2)² + wG*(G1-G2)² + wB*(B1-B2)²)
//
// The classifier weights channels by luminance (0.30, 0.59, 0.11). The
// simplifier uses plain Euclidean distance.
//
// # Grouping
//
// Grouping is a single greedy pass in descending frequency order. Each colour
// not yet assigned seeds a group and absorbs every later unassigned colour
// within tolerance of the seed. Absorbed colours never seed groups of their own.
// Equal frequencies are ordered by packed RGB value so results are deterministic.
//
// # Thread Safety
//
// An Engine holds only immutable configuration and a logger. Every call decodes
// its own pixel buffer, so calls may run concurrently on separate inputs.
//
// # Errors
//
// ErrInvalidImage covers empty, non-image, undecodable and zero-dimension input.
// ErrDecodeFailure is returned when the simplified image cannot be encoded.
// Both are fatal to the call; no partial results are returned.
package spotcolor
