// Package filter implements the PNG row filter pipeline used by MNG, PNG
// and JNG alpha streams.
//
// It covers:
//   - the five PNG filter types (None, Sub, Up, Average, Paeth) in both
//     directions, plus the minimum-sum-of-absolute-differences heuristic
//     used by the encoder to pick a filter per row
//   - Adam7 interlace pass geometry
//   - MNG filter method 64 intrapixel differencing for RGB and RGBA rows
//
// Rows are raw scanline bytes without the leading filter-type byte. All
// functions work on caller-owned slices and never retain them.
package filter
