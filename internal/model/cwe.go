package model

import (
	"fmt"
	"regexp"
)

var cweTagPattern = regexp.MustCompile(`(?i)cwe-?(\d+)`)
var cweTextPattern = regexp.MustCompile(`(?i)CWE-(\d+)`)

// CWEFromTags extracts a canonical CWE id from rule tags such as
// "external/cwe/cwe-089". The first matching tag wins.
func CWEFromTags(tags []string) string {
	for _, tag := range tags {
		if m := cweTagPattern.FindStringSubmatch(tag); m != nil {
			return fmt.Sprintf("CWE-%s", m[1])
		}
	}
	return ""
}

// CWEFromText extracts a canonical CWE id from free text.
func CWEFromText(text string) string {
	if m := cweTextPattern.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("CWE-%s", m[1])
	}
	return ""
}
