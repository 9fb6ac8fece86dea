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

// Keep alphanumeric UTF-8 characters
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

type WordCount struct {
	Word  string
	Count int
}

type WordCountResult struct {
	Files int
	Lines int
	Words map[string]int
}

// Top returns the n most frequent words, ties broken alphabetically. n <= 0
// returns every word.
func (r *WordCountResult) Top(n int) []WordCount {
	counts := make([]WordCount, 0, len(r.Words))
	for word, count := range r.Words {
		counts = append(counts, WordCount{Word: word, Count: count})
	}
	slices.SortFunc(counts, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// CountWords adds the lower-cased words of line to into.
func CountWords(line string, into map[string]int) {
	for word := range strings.FieldsSeq(line) {
		word = nonWord.ReplaceAllString(strings.ToLower(word), "")
		if word == "" {
			continue
		}
		into[word]++
	}
}

// WordCountFiles counts words across files, one pool job per file. It waits for
// the pool to drain, so the pool should not be shared with long-running
// unrelated work.
func WordCountFiles(p *pool.Pool, files []string) (*WordCountResult, error) {
	var (
		mu     sync.Mutex
		errs   []error
		result = &WordCountResult{Words: make(map[string]int)}
	)

	for _, file := range files {
		err := p.Submit(func() {
			lines, err := ReadLines(file)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}

			local := make(map[string]int)
			for _, line := range lines {
				CountWords(line.Text, local)
			}

			mu.Lock()
			defer mu.Unlock()
			result.Files++
			result.Lines += len(lines)
			for word, count := range local {
				result.Words[word] += count
			}
		})
		if err != nil {
			return nil, fmt.Errorf("submitting %s: %w", file, err)
		}
	}
	p.WaitIdle()

	mu.Lock()
	defer mu.Unlock()
	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}
	return result, nil
}
