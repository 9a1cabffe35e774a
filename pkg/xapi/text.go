package xapi

import (
	"strings"
	"unicode/utf8"
)

const (
	tweetBudget = 280

	// X wraps every URL in t.co, so a link always costs 23 characters
	// regardless of its real length.
	tcoLength = 23

	maxHashtags = 3
)

// BuildTweetText lays out a post as summary, blank line, hashtag line,
// link line, trimming the summary on a word boundary when the whole
// thing would blow the 280 budget.
func BuildTweetText(summary string, hashtags []string, url string) string {
	tagLine := buildTagLine(hashtags)

	// Everything but the summary has fixed cost.
	fixed := 0
	if tagLine != "" {
		fixed += 2 + utf8.RuneCountInString(tagLine)
	}
	if url != "" {
		if tagLine != "" {
			fixed += 1 + tcoLength
		} else {
			fixed += 2 + tcoLength
		}
	}

	summary = truncateWords(strings.TrimSpace(summary), tweetBudget-fixed)

	var b strings.Builder
	b.WriteString(summary)
	if tagLine != "" {
		b.WriteString("\n\n")
		b.WriteString(tagLine)
	}
	if url != "" {
		if tagLine != "" {
			b.WriteString("\n")
		} else {
			b.WriteString("\n\n")
		}
		b.WriteString(url)
	}
	return b.String()
}

// buildTagLine normalizes up to maxHashtags tags: "#" prefixed, inner
// spaces removed ("Li Auto" posts as #LiAuto).
func buildTagLine(hashtags []string) string {
	tags := make([]string, 0, maxHashtags)
	for _, tag := range hashtags {
		tag = strings.ReplaceAll(strings.TrimSpace(tag), " ", "")
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tags = append(tags, tag)
		if len(tags) == maxHashtags {
			break
		}
	}
	return strings.Join(tags, " ")
}

// truncateWords cuts s to at most max runes, preferring a word
// boundary, and marks the cut with an ellipsis.
func truncateWords(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := string([]rune(s)[:max-1])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}
