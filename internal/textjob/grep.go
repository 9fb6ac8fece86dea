package textjob

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/nemanja-m/gopool/pkg/pool"
)

type Match struct {
	Filename string
	Number   int
	Text     string
}

// CompilePattern compiles expr, optionally case-insensitive.
func CompilePattern(expr string, ignoreCase bool) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, fmt.Errorf("pattern must not be empty")
	}
	if ignoreCase {
		expr = "(?i)" + expr
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return pattern, nil
}

// Grep returns every line in files matching pattern, ordered by file and line
// number. Files are read with pool.ForEach and lines are matched with a
// second ForEach pass.
func Grep(p *pool.Pool, files []string, pattern *regexp.Regexp) ([]Match, error) {
	perFile := make([][]Line, len(files))
	readErrs := make([]error, len(files))
	if err := pool.ForRange(p, 0, len(files), func(i int) {
		perFile[i], readErrs[i] = ReadLines(files[i])
	}); err != nil {
		return nil, err
	}
	if err := errors.Join(readErrs...); err != nil {
		return nil, err
	}

	var lines []Line
	for _, fileLines := range perFile {
		lines = append(lines, fileLines...)
	}

	var (
		mu      sync.Mutex
		matches []Match
	)
	if err := pool.ForEach(p, lines, func(line Line) {
		if !pattern.MatchString(line.Text) {
			return
		}
		mu.Lock()
		matches = append(matches, Match{
			Filename: line.Filename,
			Number:   line.Number,
			Text:     strings.TrimSpace(line.Text),
		})
		mu.Unlock()
	}); err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Filename, b.Filename); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	return matches, nil
}
