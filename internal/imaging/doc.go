// Package imaging handles uploaded artwork for the MCP server: loading and
// caching files, reporting their metadata, sampling pixels and building quick
// preview palettes.
//
// The spot colour decision itself lives in package spotcolor and works on the
// raw bytes held by ImageCache. This package only covers what the server needs
// around it.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The sampling functions are
// stateless and never modify the image they are given.
//
// # Color Representation
//
// Colors are returned in multiple formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit non-premultiplied components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Memory
//
// Cached entries hold both the file bytes and the decoded image. Long-running
// servers should Evict() paths they overwrite and Clear() between batches.
package imaging
