package model

import "sort"

// SortBySize sorts candidates by size descending, then by path ascending
func SortBySize(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		si, sj := cands[i].Size, cands[j].Size
		if si != sj {
			return si > sj
		}
		return cands[i].Path < cands[j].Path
	})
}
