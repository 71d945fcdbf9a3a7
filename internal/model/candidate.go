package model

// Candidate represents a file or directory flagged by a scan
type Candidate struct {
	Path  string
	Size  uint64 // recursive total for dirs, own length for files
	IsDir bool
}

// ScanResult holds the candidates produced by one scan pass
type ScanResult struct {
	Root       string
	Candidates []Candidate
	Capped     bool // scan stopped because the result cap was reached
}

// Len returns the number of candidates
func (r ScanResult) Len() int {
	return len(r.Candidates)
}

// Empty reports whether the scan found nothing
func (r ScanResult) Empty() bool {
	return len(r.Candidates) == 0
}

// TotalSize returns the summed size of all candidates
func (r ScanResult) TotalSize() uint64 {
	var total uint64
	for _, c := range r.Candidates {
		total += c.Size
	}
	return total
}

// Paths returns candidate paths in result order
func (r ScanResult) Paths() []string {
	paths := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		paths = append(paths, c.Path)
	}
	return paths
}

// Sorted returns a copy of the result with candidates sorted by size
func (r ScanResult) Sorted() ScanResult {
	out := r
	out.Candidates = append([]Candidate(nil), r.Candidates...)
	SortBySize(out.Candidates)
	return out
}
