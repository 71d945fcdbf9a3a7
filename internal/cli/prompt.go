package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lumipallolabs/diskprune/internal/cleanup"
	"github.com/lumipallolabs/diskprune/internal/model"
)

// linePrompter asks for a selection and a confirmation on plain text
// streams
type linePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// Select lists the candidates and reads the numbers to delete. End of
// input selects nothing.
func (p *linePrompter) Select(candidates []model.Candidate) ([]string, error) {
	fmt.Fprintln(p.out, candidateTable(candidates, true).Render())
	for {
		fmt.Fprint(p.out, "Delete which? (e.g. 1,3-5 or all, empty for none): ")
		line, ok := p.readLine()
		if !ok {
			return nil, p.in.Err()
		}
		picked, err := parseSelection(line, len(candidates))
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		paths := make([]string, 0, len(picked))
		for _, i := range picked {
			paths = append(paths, candidates[i].Path)
		}
		return paths, nil
	}
}

// Confirm asks prompt and accepts only an explicit yes
func (p *linePrompter) Confirm(count int, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, ok := p.readLine()
	if !ok {
		return false, p.in.Err()
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *linePrompter) readLine() (string, bool) {
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return p.in.Text(), true
}

// parseSelection turns "1,3-5 7" into sorted zero-based indexes below n.
// "all" or "*" selects everything; blank selects nothing.
func parseSelection(s string, n int) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	seen := make(map[int]bool)
	for _, f := range fields {
		if f == "all" || f == "*" {
			for i := 0; i < n; i++ {
				seen[i] = true
			}
			continue
		}

		lo, hi, isRange := strings.Cut(f, "-")
		from, err := selectionIndex(lo, n)
		if err != nil {
			return nil, err
		}
		to := from
		if isRange {
			if to, err = selectionIndex(hi, n); err != nil {
				return nil, err
			}
		}
		if to < from {
			return nil, fmt.Errorf("invalid range %q", f)
		}
		for i := from; i <= to; i++ {
			seen[i] = true
		}
	}

	picked := make([]int, 0, len(seen))
	for i := range seen {
		picked = append(picked, i)
	}
	sort.Ints(picked)
	return picked, nil
}

func selectionIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%d is out of range 1-%d", i, n)
	}
	return i - 1, nil
}

var (
	_ cleanup.Presenter = (*linePrompter)(nil)
	_ cleanup.Confirmer = (*linePrompter)(nil)
)
