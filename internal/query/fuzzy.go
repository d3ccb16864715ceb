package query

// similarityRatio computes an edit-distance similarity in [0,1] between two
// strings, with substitutions weighted double so that transposed words score
// like the classic sequence-matcher ratio.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}

	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 2
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	dist := prev[lb]
	return float64(la+lb-dist) / float64(la+lb)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
