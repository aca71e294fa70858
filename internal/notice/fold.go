package notice

// Token matching throughout the package folds ASCII case only. The
// observed announcement templates use ASCII header and footer tokens,
// and matching on raw bytes keeps section offsets exact.

// indexFold returns the index of the first occurrence of token in s at
// or after from, comparing ASCII letters case-insensitively, or -1.
func indexFold(s, token string, from int) int {
	if token == "" || from < 0 {
		return -1
	}
	for i := from; i+len(token) <= len(s); i++ {
		if equalFoldAt(s, i, token) {
			return i
		}
	}
	return -1
}

// findAllFold returns the start offsets of all non-overlapping
// occurrences of token in s, in order.
func findAllFold(s, token string) []int {
	var out []int
	for i := indexFold(s, token, 0); i >= 0; i = indexFold(s, token, i+len(token)) {
		out = append(out, i)
	}
	return out
}

func hasPrefixFold(s, token string) bool {
	return len(s) >= len(token) && equalFoldAt(s, 0, token)
}

func equalFoldAt(s string, at int, token string) bool {
	for j := 0; j < len(token); j++ {
		if lowerASCII(s[at+j]) != lowerASCII(token[j]) {
			return false
		}
	}
	return true
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
