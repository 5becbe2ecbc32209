package model

import "strings"

// IssueType classifies why equipment was handed in.
type IssueType string

const (
	IssueHardwareFailure  IssueType = "Hardware Failure"
	IssueSoftwareRequest  IssueType = "Software Request"
	IssuePerformanceIssue IssueType = "Performance Issue"
	IssueAccountLockout   IssueType = "Account Lockout"
	IssueOther            IssueType = "Other"
)

// IssueTypes lists the catalogue in display order.
var IssueTypes = []IssueType{
	IssueHardwareFailure,
	IssueSoftwareRequest,
	IssuePerformanceIssue,
	IssueAccountLockout,
	IssueOther,
}

// issueAliases maps retired labels onto the current catalogue.
var issueAliases = map[string]IssueType{
	"etc": IssueOther,
}

// issueSeparator joins type and details in the combined issue string.
const issueSeparator = ": "

// ParseIssueType resolves a label to a catalogue entry, ignoring case.
// The second value is false for labels outside the catalogue.
func ParseIssueType(label string) (IssueType, bool) {
	key := Fold(strings.TrimSpace(label))
	if key == "" {
		return "", false
	}
	for _, t := range IssueTypes {
		if Fold(string(t)) == key {
			return t, true
		}
	}
	if t, ok := issueAliases[key]; ok {
		return t, true
	}
	return "", false
}

// ParseIssue splits the combined "<Type>: <details>" string accepted at the
// input boundary on its first colon. typed is false when the text carries no
// known type prefix; the text is then kept whole as the details of an
// IssueOther.
func ParseIssue(combined string) (t IssueType, details string, typed bool) {
	text := NormalizeText(combined)
	head, tail, _ := strings.Cut(text, ":")
	if it, known := ParseIssueType(head); known {
		return it, strings.TrimSpace(tail), true
	}
	return IssueOther, text, false
}

// ComposeIssue renders the combined string for receipts and older readers.
func ComposeIssue(t IssueType, details string) string {
	if t == "" {
		t = IssueOther
	}
	if details == "" {
		return string(t)
	}
	return string(t) + issueSeparator + details
}
