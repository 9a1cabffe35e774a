package extract

import (
	"regexp"
	"strconv"
)

// Change wording tried in order: down words, up words, then a bare
// signed percentage.
type changePatterns struct {
	down   *regexp.Regexp
	up     *regexp.Regexp
	signed *regexp.Regexp
}

var yoyChange = changePatterns{
	down: regexp.MustCompile(`(?i)(?:down|decrease|decline|drop|fall|fell)\s*(\d+(?:\.\d+)?)\s*%?\s*` +
		`(?:year-on-year|yoy|y-o-y|year over year|year-over-year)`),
	up: regexp.MustCompile(`(?i)(?:up|increase|rise|rose|grew|grow)\s*(\d+(?:\.\d+)?)\s*%?\s*` +
		`(?:year-on-year|yoy|y-o-y|year over year|year-over-year)`),
	signed: regexp.MustCompile(`(?i)([+-]?\d+(?:\.\d+)?)\s*%\s*(?:year-on-year|yoy|y-o-y|year-over-year|year over year)`),
}

var momChange = changePatterns{
	down: regexp.MustCompile(`(?i)(?:down|decrease|decline|drop|fall|fell)\s*(\d+(?:\.\d+)?)\s*%?\s*` +
		`(?:month-on-month|mom|m-o-m|month over month|month-over-month)`),
	up: regexp.MustCompile(`(?i)(?:up|increase|rise|rose|grew|grow)\s*(\d+(?:\.\d+)?)\s*%?\s*` +
		`(?:month-on-month|mom|m-o-m|month over month|month-over-month)`),
	signed: regexp.MustCompile(`(?i)([+-]?\d+(?:\.\d+)?)\s*%\s*(?:month-on-month|mom|m-o-m|month-over-month|month over month)`),
}

var (
	// Both word orders: "market share of 25.4%" and "25.4% market share".
	shareAfterPattern  = regexp.MustCompile(`(?i)(?:market\s*share|share)\s*(?:of|:)?\s*(\d+(?:\.\d+)?)\s*%`)
	shareBeforePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:market\s*)?share`)

	rankPattern = regexp.MustCompile(`(?i)(?:rank(?:ed|ing)?|#)\s*(\d+)`)
)

func (p changePatterns) extract(text string) *float64 {
	if text == "" {
		return nil
	}
	if m := p.down.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			v = -v
			return &v
		}
	}
	if m := p.up.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	if m := p.signed.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}

// YoYChange extracts a year-over-year change percentage from summary or
// content text. Declines come back negative.
func YoYChange(text string) *float64 {
	return yoyChange.extract(text)
}

// MoMChange extracts a month-over-month change percentage from summary
// or content text. Declines come back negative.
func MoMChange(text string) *float64 {
	return momChange.extract(text)
}

// MarketShare extracts a market share percentage from text.
func MarketShare(text string) *float64 {
	if text == "" {
		return nil
	}
	for _, re := range []*regexp.Regexp{shareAfterPattern, shareBeforePattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}
	return nil
}

// Ranking extracts a ranking position ("ranked 2", "#1") from text.
func Ranking(text string) *int {
	if text == "" {
		return nil
	}
	if m := rankPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return &v
		}
	}
	return nil
}

// EnrichFromSummary fills change, share and rank fields the title alone
// could not provide. Values already present are kept.
func EnrichFromSummary(m *TitleMetric, summary string) {
	if m == nil || summary == "" {
		return
	}
	if m.YoYChange == nil {
		m.YoYChange = YoYChange(summary)
	}
	if m.MoMChange == nil {
		m.MoMChange = MoMChange(summary)
	}
	if m.MarketShare == nil {
		m.MarketShare = MarketShare(summary)
	}
	if m.Rank == nil {
		m.Rank = Ranking(summary)
	}
}
