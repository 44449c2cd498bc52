package filter

import "strings"

// containFloor is the similarity assigned when one string contains the other.
const containFloor = 0.9

// Similarity scores two normalized strings in [0,1]. It takes the maximum of
// a rune-level sequence ratio, a token-overlap ratio, and a containment
// floor, so both character-level edits and word-level rewrites are caught.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		if a == b {
			return 1
		}
		return 0
	}
	if a == b {
		return 1
	}
	s := seqRatio(a, b)
	if t := tokenOverlap(a, b); t > s {
		s = t
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		if s < containFloor {
			s = containFloor
		}
	}
	return s
}

// seqRatio is 2*LCS(a,b)/(len(a)+len(b)) over runes.
func seqRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// tokenOverlap is the Jaccard ratio over whitespace-separated tokens.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		seen[t] = struct{}{}
	}
	inter := 0
	union := len(seen)
	done := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := done[t]; dup {
			continue
		}
		done[t] = struct{}{}
		if _, ok := seen[t]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}
