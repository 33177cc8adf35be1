package bytes

// StripPadding returns a slice of b without the trailing 0s.
func StripPadding(b []byte) []byte {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0 {
			return b[:i+1]
		}
	}
	return []byte{}
}

// PadString returns str as a fixed-size byte array of length size, truncated
// if it's too long and right-padded with 0s if it's too short. Fixed-width
// NUL-padded strings are how every name field in the protocol is laid out.
func PadString(str string, size int) []byte {
	padded := make([]byte, size)
	copy(padded, str)
	return padded
}
