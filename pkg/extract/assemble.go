package extract

// Gather copies a patch out of a row-major source buffer using two index
// lookup tables: output position (r, c) receives src[rowLUT[r]*stride +
// colLUT[c]]. It is a pure gather with no interpolation or type conversion,
// instantiated once per element layout (grayscale bytes, bin tuples). Runs in
// one pass over the output; the returned buffer has stride len(colLUT).
func Gather[T any](src []T, stride int, rowLUT, colLUT []int) []T {
	cols := len(colLUT)
	out := make([]T, len(rowLUT)*cols)
	for r, sr := range rowLUT {
		srcRow := src[sr*stride:]
		dstRow := out[r*cols : (r+1)*cols]
		for c, sc := range colLUT {
			dstRow[c] = srcRow[sc]
		}
	}
	return out
}
