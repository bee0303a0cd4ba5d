package extract

// ReflectIndices maps the patch index range [patchStart, patchStart+patchSize)
// onto valid indices of a source dimension of length imageSize, extending
// past-the-edge positions by mirror reflection. Reflection is periodic with
// period 2×imageSize, so the mapping stays correct no matter how far the
// patch reaches beyond the image: indices ping-pong back and forth between
// the two borders. For imageSize 1 every position maps to 0.
//
// The result always has length patchSize and every entry lies in
// [0, imageSize). imageSize and patchSize must be positive.
func ReflectIndices(imageSize, patchStart, patchSize int) []int {
	lut := make([]int, patchSize)
	period := 2 * imageSize
	for i := range lut {
		m := (patchStart + i) % period
		if m < 0 {
			m += period
		}
		if m >= imageSize {
			m = period - 1 - m
		}
		lut[i] = m
	}
	return lut
}
