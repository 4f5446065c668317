package util

import (
	"golang.org/x/exp/slices"
)

// RemoveDuplicateStrings returns the non-empty strings in their first-seen order, skipping anything in ignoreList
func RemoveDuplicateStrings(strings []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range strings {
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}

// SortedStrings returns a sorted, de-duplicated copy
func SortedStrings(strings []string) []string {
	list := RemoveDuplicateStrings(strings, nil)
	slices.Sort(list)

	return list
}

// IntersectStrings returns the members of a also present in b, sorted
func IntersectStrings(a []string, b []string) []string {
	present := make(map[string]bool, len(b))
	for _, item := range b {
		present[item] = true
	}

	var list []string
	for _, item := range RemoveDuplicateStrings(a, nil) {
		if present[item] {
			list = append(list, item)
		}
	}
	slices.Sort(list)

	return list
}

func ContainsString(s []string, str string) bool {
	return slices.Contains(s, str)
}
