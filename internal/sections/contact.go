package sections

import (
	"regexp"
	"strings"
	"unicode"

	"resumelens/internal/types"
)

var (
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{2,4}\)|\d{2,4})[\s.\-]?\d{3,4}[\s.\-]?\d{3,4}`)
	linkedInRe  = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9_\-%]+/?`)
	gitHubRe    = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`)
	urlRe       = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s,;|()<>]+`)
	nameTokenRe = regexp.MustCompile(`^[\p{Lu}][\p{L}'.\-]*$`)
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
	nameScanLines  = 5
)

// HasEmail reports whether s contains an email address.
func HasEmail(s string) bool {
	return emailRe.MatchString(s)
}

// HasProfileLink reports whether s contains a URL or a LinkedIn or GitHub profile.
func HasProfileLink(s string) bool {
	return urlRe.MatchString(s) || linkedInRe.MatchString(s) || gitHubRe.MatchString(s)
}

// FindPhone returns the first phone-like run with a plausible digit count.
func FindPhone(s string) string {
	for _, m := range phoneRe.FindAllString(s, -1) {
		digits := 0
		for _, r := range m {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits >= minPhoneDigits && digits <= maxPhoneDigits {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// hasContactPattern reports whether s carries an email, phone or profile link.
func hasContactPattern(s string) bool {
	return HasEmail(s) || FindPhone(s) != "" || HasProfileLink(s)
}

// extractContact scans the whole text for identity fields.
func extractContact(text string) types.ContactInfo {
	info := types.ContactInfo{
		Email:    emailRe.FindString(text),
		Phone:    FindPhone(text),
		LinkedIn: strings.TrimSuffix(linkedInRe.FindString(text), "/"),
		GitHub:   gitHubRe.FindString(text),
		Name:     findName(text),
	}

	for _, u := range urlRe.FindAllString(text, -1) {
		lower := strings.ToLower(u)
		if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
			continue
		}
		info.Portfolio = strings.TrimRight(u, ".")
		break
	}
	return info
}

// findName looks for a short line of capitalized words near the top.
func findName(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if seen == nameScanLines {
			break
		}
		seen++

		if strings.ContainsAny(line, "@0123456789/:") {
			continue
		}
		if _, _, ok := MatchHeader(line); ok {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			if !nameTokenRe.MatchString(w) {
				ok = false
				break
			}
		}
		if ok {
			return line
		}
	}
	return ""
}
