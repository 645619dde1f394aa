package layout

// IsInside reports whether the point hits k.
//
// Horizontally a key covers [X, X+Width). A left-edge key also claims every
// point to its left and a right-edge key every point to its right, so touches
// in the margins still land on the outermost keys. Vertically the key covers
// [Y, Y+Height).
func IsInside(k *Key, x, y int) bool {
	left := k.Edges.Has(EdgeLeft)
	right := k.Edges.Has(EdgeRight)
	return (x >= k.X || left && x <= k.X+k.Width) &&
		(x < k.X+k.Width || right && x >= k.X) &&
		y >= k.Y && y < k.Y+k.Height
}

// IsInside is the method form of IsInside.
func (k *Key) IsInside(x, y int) bool { return IsInside(k, x, y) }

// KeyAt returns the first key, in row-major order, that contains the point.
func (kb *Keyboard) KeyAt(x, y int) (*Key, bool) {
	for _, k := range kb.keys {
		if k.IsInside(x, y) {
			return k, true
		}
	}
	return nil, false
}
