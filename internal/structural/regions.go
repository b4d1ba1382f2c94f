package structural

import (
	"strings"

	"mathmark/internal/symbolic"
)

// Region names a structural part of the rendered problem.
type Region string

const (
	RegionLeftSide    Region = "left_side"
	RegionRightSide   Region = "right_side"
	RegionNumerator   Region = "numerator"
	RegionDenominator Region = "denominator"
	RegionFirstTerm   Region = "first_term"
	RegionSecondTerm  Region = "second_term"
	RegionThirdTerm   Region = "third_term"
	RegionTopHalf     Region = "top_half"
	RegionBottomHalf  Region = "bottom_half"
	RegionLeftHalf    Region = "left_half"
	RegionRightHalf   Region = "right_half"
	RegionWhole       Region = "whole"
)

var allRegions = []Region{
	RegionLeftSide, RegionRightSide,
	RegionNumerator, RegionDenominator,
	RegionFirstTerm, RegionSecondTerm, RegionThirdTerm,
	RegionTopHalf, RegionBottomHalf, RegionLeftHalf, RegionRightHalf,
	RegionWhole,
}

// Regions lists every region in display order.
func Regions() []Region {
	return append([]Region(nil), allRegions...)
}

var aliases = map[string]Region{
	"left side":              RegionLeftSide,
	"left hand side":         RegionLeftSide,
	"lhs":                    RegionLeftSide,
	"left":                   RegionLeftSide,
	"right side":             RegionRightSide,
	"right hand side":        RegionRightSide,
	"rhs":                    RegionRightSide,
	"right":                  RegionRightSide,
	"numerator":              RegionNumerator,
	"top of the fraction":    RegionNumerator,
	"denominator":            RegionDenominator,
	"bottom of the fraction": RegionDenominator,
	"first term":             RegionFirstTerm,
	"1st term":               RegionFirstTerm,
	"second term":            RegionSecondTerm,
	"2nd term":               RegionSecondTerm,
	"middle term":            RegionSecondTerm,
	"third term":             RegionThirdTerm,
	"3rd term":               RegionThirdTerm,
	"last term":              RegionThirdTerm,
	"top half":               RegionTopHalf,
	"upper half":             RegionTopHalf,
	"top":                    RegionTopHalf,
	"bottom half":            RegionBottomHalf,
	"lower half":             RegionBottomHalf,
	"bottom":                 RegionBottomHalf,
	"left half":              RegionLeftHalf,
	"right half":             RegionRightHalf,
	"equation":               RegionWhole,
	"whole equation":         RegionWhole,
	"entire equation":        RegionWhole,
	"problem":                RegionWhole,
	"whole problem":          RegionWhole,
	"expression":             RegionWhole,
}

var suffixes = []string{
	" of the equation",
	" of the equals sign",
	" of the expression",
	" of the problem",
	" of the fraction",
}

// ParseRegion maps a phrase such as "the left-hand side of the equation" to a
// region.
func ParseRegion(phrase string) (Region, bool) {
	p := symbolic.Normalize(strings.ReplaceAll(phrase, "-", " "))
	if r, ok := aliases[p]; ok {
		return r, true
	}
	for _, s := range suffixes {
		if trimmed, found := strings.CutSuffix(p, s); found {
			if r, ok := aliases[trimmed]; ok {
				return r, true
			}
		}
	}
	return "", false
}
