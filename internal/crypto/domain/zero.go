package domain

// Zero overwrites b with zeros. Every seed, private key, derived key and content key
// handled by the service passes through here before the owning call returns.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// ZeroAll zeroes each of the given slices.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}
