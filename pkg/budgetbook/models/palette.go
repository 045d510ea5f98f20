package models

import (
	"sort"
	"strings"
)

// LabelPalette maps transaction labels to row fill colors.
type LabelPalette struct {
	// Colors maps a label to a hex RGB color without "#".
	Colors map[string]string
	// Default is used for labels missing from Colors.
	Default string
}

// Color returns the color for label and whether it was explicitly mapped.
// Labels match case-insensitively when there is no exact entry.
func (p LabelPalette) Color(label string) (string, bool) {
	if c, ok := p.Colors[label]; ok {
		return normalizeHex(c), true
	}
	for l, c := range p.Colors {
		if strings.EqualFold(l, label) {
			return normalizeHex(c), true
		}
	}
	return normalizeHex(p.Default), false
}

// Labels returns the mapped labels in the given order, followed by any
// mapped labels not present in order, sorted.
func (p LabelPalette) Labels(order []string) []string {
	seen := make(map[string]bool, len(p.Colors))
	var out []string
	for _, l := range order {
		if _, ok := p.Colors[l]; ok && !seen[l] {
			out = append(out, l)
			seen[l] = true
		}
	}
	var rest []string
	for l := range p.Colors {
		if !seen[l] {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func normalizeHex(c string) string {
	return strings.ToUpper(strings.TrimPrefix(c, "#"))
}
