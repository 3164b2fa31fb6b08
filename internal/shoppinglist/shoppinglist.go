// Package shoppinglist folds the ingredients of saved recipes into a
// printable list.
package shoppinglist

import (
	"strconv"
	"strings"
)

// Item is one ingredient line of one recipe.
type Item struct {
	Name   string
	Unit   string
	Amount int
}

// Line is an aggregated entry: every Item sharing Name and Unit, summed.
type Line struct {
	Name   string
	Unit   string
	Amount int
}

type key struct {
	name string
	unit string
}

// Aggregate groups items by (name, unit) in order of first occurrence
// and sums their amounts.
func Aggregate(items []Item) []Line {
	index := make(map[key]int, len(items))
	lines := make([]Line, 0, len(items))

	for _, it := range items {
		k := key{it.Name, it.Unit}
		if i, ok := index[k]; ok {
			lines[i].Amount += it.Amount
			continue
		}
		index[k] = len(lines)
		lines = append(lines, Line(it))
	}

	return lines
}

// Render formats lines as "• name (unit) - amount", one per line.
// An empty list renders as the empty string.
func Render(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(l.Name)
		b.WriteString(" (")
		b.WriteString(l.Unit)
		b.WriteString(") - ")
		b.WriteString(strconv.Itoa(l.Amount))
	}
	return b.String()
}

// Build aggregates and renders in one step.
func Build(items []Item) string {
	return Render(Aggregate(items))
}
