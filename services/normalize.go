package services

import (
	"regexp"
	"strings"
)

// Sentinel values substituted when a field cannot be extracted. Collection
// never aborts on a missing field.
const (
	NoImage         = "无"
	DefaultSales    = "100"
	DefaultComments = "0"
	DefaultStar     = "3"
)

// digitsRegexp captures runs of ASCII digits.
var digitsRegexp = regexp.MustCompile(`\d+`)

// brandRule maps a set of title keywords to a brand label. Latin keywords
// are matched case-insensitively, CJK keywords literally.
type brandRule struct {
	brand    string
	keywords []string
}

// brandRules is checked in order and the first match wins. The keyword sets
// are not mutually exclusive, so the priority order is part of the contract.
var brandRules = []brandRule{
	{"Huawei", []string{"华为", "huawei", "荣耀"}},
	{"Xiaomi", []string{"小米", "redmi", "red mi", "红米"}},
	{"OPPO", []string{"oppo", "realme", "真我"}},
	{"Vivo", []string{"vivo"}},
	{"OnePlus", []string{"oneplus", "一加"}},
	{"Moto", []string{"moto", "摩托罗拉"}},
}

// ClassifyBrand maps a listing title to one of the fixed brand labels,
// falling back to "Other" when no keyword matches.
func ClassifyBrand(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range brandRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.brand
			}
		}
	}
	return "Other"
}

// NormalizeCount converts a human-readable figure into a digit string.
// The 万 (ten-thousand) marker is expanded to four zeros before digit
// extraction, and all digit runs are concatenated — "2.3万" becomes
// "230000" because the decimal point is dropped, matching the collector's
// historical behavior. When no digits remain the fallback is returned, so
// the result is never empty.
func NormalizeCount(raw, fallback string) string {
	expanded := strings.ReplaceAll(raw, "万", "0000")
	digits := strings.Join(digitsRegexp.FindAllString(expanded, -1), "")
	if digits == "" {
		return fallback
	}
	return digits
}
