package bitbuf

import "strings"

// sixBitTable maps 6-bit values (0-63) to AIS characters
// (ITU-R M.1371, table 47). '@' is the pad/terminator.
const sixBitTable = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_ !\"#$%&'()*+,-./0123456789:;<=>?"

// SixBitCode returns the 6-bit value of an AIS text character.
func SixBitCode(c byte) (byte, bool) {
	switch {
	case c >= '@' && c <= '_':
		return c - '@', true
	case c >= ' ' && c <= '?':
		return c, true
	}
	return 0, false
}

// SixBitChar returns the AIS text character for a 6-bit value.
func SixBitChar(v byte) byte {
	return sixBitTable[v&0x3f]
}

// ValidText reports whether every character of s is in the AIS alphabet.
func ValidText(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, ok := SixBitCode(s[i]); !ok {
			return false
		}
	}
	return true
}

// Normalize upper-cases s, the only way lowercase text can travel.
func Normalize(s string) string {
	return strings.ToUpper(s)
}
