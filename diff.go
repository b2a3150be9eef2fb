package main

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

var (
	insertColor = color.New(color.FgGreen).SprintFunc()
	deleteColor = color.New(color.FgRed).SprintFunc()
)

// lineDiff returns a unified-style listing of the lines that differ between
// from and to, or "" when they are equal. Unchanged lines are kept with a
// leading space so the changes can be read in context.
func lineDiff(from, to string) string {
	if from == to {
		return ""
	}

	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffInsert:
				out.WriteString(insertColor("+" + line))
			case diffpatch.DiffDelete:
				out.WriteString(deleteColor("-" + line))
			case diffpatch.DiffEqual:
				out.WriteString(" " + line)
			}
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// splitLines splits text into lines without their newline. A trailing
// newline does not produce an empty last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
