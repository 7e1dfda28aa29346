package core

// Itoa converts an integer to a string without using fmt package.
// Debug lines are built with it so TinyGo builds stay small.
func Itoa(n int) string {
	if n < 0 {
		// Negate in unsigned space so the minimum int does not overflow
		return "-" + Utoa64(uint64(-(n + 1))+1)
	}
	return Utoa64(uint64(n))
}

// Utoa converts an unsigned integer to a string
func Utoa(n uint32) string {
	return Utoa64(uint64(n))
}

// Utoa64 converts a 64-bit unsigned integer to a string
func Utoa64(n uint64) string {
	if n == 0 {
		return "0"
	}

	// Build string from right to left
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
