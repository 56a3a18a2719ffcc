// Package report scores suggestion output files against a file of expected
// answers and prints per-line tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"

	"github.com/bastiangx/wordcorrect/internal/utils"
)

const empty = "[empty]"

// Result counts the matching lines of two output files.
type Result struct {
	Total    int
	Correct1 int
	Correct2 int
}

// Accuracy1 is the share of lines the first file got right, in percent.
func (r Result) Accuracy1() float64 { return percent(r.Correct1, r.Total) }

// Accuracy2 is the share of lines the second file got right, in percent.
func (r Result) Accuracy2() float64 { return percent(r.Correct2, r.Total) }

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// pad extends every list with empty lines to the longest one.
func pad(lists ...[]string) int {
	n := 0
	for _, l := range lists {
		n = max(n, len(l))
	}
	for i := range lists {
		for len(lists[i]) < n {
			lists[i] = append(lists[i], "")
		}
	}
	return n
}

func readAll(paths ...string) ([][]string, error) {
	out := make([][]string, len(paths))
	for i, p := range paths {
		lines, err := utils.ReadLines(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		out[i] = lines
	}
	return out, nil
}

func newTable(w io.Writer) *tabby.Tabby {
	return tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
}

func orEmpty(s string) string {
	if s == "" {
		return empty
	}
	return s
}

// Compare scores two single-suggestion files line by line against gold.
// Lines must match exactly.
func Compare(w io.Writer, file1, file2, gold string) (Result, error) {
	lists, err := readAll(file1, file2, gold)
	if err != nil {
		return Result{}, err
	}
	return CompareLines(w, lists[0], lists[1], lists[2]), nil
}

// CompareLines is Compare on lines already in memory.
func CompareLines(w io.Writer, out1, out2, gold []string) Result {
	lists := [][]string{out1, out2, gold}
	n := pad(lists...)
	out1, out2, gold = lists[0], lists[1], lists[2]

	res := Result{Total: n}
	table := newTable(w)
	table.AddHeader("IDX", "TRUTH", "FILE 1", "FILE 2", "RESULT")
	for i := 0; i < n; i++ {
		var marks []string
		if out1[i] == gold[i] {
			res.Correct1++
			marks = append(marks, "OK1")
		}
		if out2[i] == gold[i] {
			res.Correct2++
			marks = append(marks, "OK2")
		}
		table.AddLine(i+1, gold[i], orEmpty(out1[i]), orEmpty(out2[i]), result(marks))
	}
	table.Print()

	summary := newTable(w)
	summary.AddLine("Total queries", res.Total)
	summary.AddLine("Correct in File 1", res.Correct1)
	summary.AddLine("Correct in File 2", res.Correct2)
	summary.AddLine("Accuracy (File 1)", fmt.Sprintf("%.2f%%", res.Accuracy1()))
	summary.AddLine("Accuracy (File 2)", fmt.Sprintf("%.2f%%", res.Accuracy2()))
	fmt.Fprintln(w)
	summary.Print()
	return res
}

// Compare3 scores a top-3 file, where a line counts when gold is one of its
// space separated words, and a single-suggestion file. All lines are trimmed.
func Compare3(w io.Writer, top3File, file2, gold string) (Result, error) {
	lists, err := readAll(top3File, file2, gold)
	if err != nil {
		return Result{}, err
	}
	return Compare3Lines(w, lists[0], lists[1], lists[2]), nil
}

// Compare3Lines is Compare3 on lines already in memory.
func Compare3Lines(w io.Writer, top3, out2, gold []string) Result {
	lists := [][]string{trimAll(top3), trimAll(out2), trimAll(gold)}
	n := pad(lists...)
	top3, out2, gold = lists[0], lists[1], lists[2]

	res := Result{Total: n}
	table := newTable(w)
	table.AddHeader("IDX", "TRUTH", "FILE 1 (TOP3)", "FILE 2", "RESULT")
	for i := 0; i < n; i++ {
		var marks []string
		for _, s := range strings.Fields(top3[i]) {
			if s == gold[i] {
				res.Correct1++
				marks = append(marks, "OK1")
				break
			}
		}
		if out2[i] == gold[i] {
			res.Correct2++
			marks = append(marks, "OK2")
		}
		table.AddLine(i+1, gold[i], orEmpty(top3[i]), orEmpty(out2[i]), result(marks))
	}
	table.Print()

	summary := newTable(w)
	summary.AddLine("Total queries", res.Total)
	summary.AddLine("Correct (File 1)", fmt.Sprintf("%d (%.2f%%)", res.Correct1, res.Accuracy1()))
	summary.AddLine("Correct (File 2)", fmt.Sprintf("%d (%.2f%%)", res.Correct2, res.Accuracy2()))
	fmt.Fprintln(w)
	summary.Print()
	return res
}

func trimAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

func result(marks []string) string {
	if len(marks) == 0 {
		return "X"
	}
	return strings.Join(marks, " ")
}
