package scanner

func IsDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '9'
}

func IsHexDigit[T byte | rune](b T) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func IsSpace[T byte | rune](b T) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// HexValue returns the value of a hex digit, assuming IsHexDigit(b).
func HexValue(b byte) rune {
	switch {
	case b >= 'a':
		return rune(b-'a') + 10
	case b >= 'A':
		return rune(b-'A') + 10
	default:
		return rune(b - '0')
	}
}
