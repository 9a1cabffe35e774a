// Package aiproc scores and translates scraped articles with an LLM.
// Providers are tried in order so a DeepSeek outage degrades to OpenAI
// instead of dropping the article.
package aiproc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ev-platform-be/pkg/llm"
	"ev-platform-be/pkg/scrape"
)

const (
	// maxContentRunes caps how much article body is sent to the model.
	maxContentRunes = 4000
	// maxSummaryRunes caps the stored X summary.
	maxSummaryRunes = 280

	defaultMinScore = 40

	processTemperature = 0.3
	processMaxTokens   = 2000
)

// Result is the structured output of one processing call.
type Result struct {
	RelevanceScore    int      `json:"relevance_score"`
	Categories        []string `json:"categories"`
	TranslatedTitle   string   `json:"translated_title"`
	TranslatedContent string   `json:"translated_content"`
	XSummary          string   `json:"x_summary"`
	Hashtags          []string `json:"hashtags"`
}

// Processor runs articles through a provider list with fallback.
type Processor struct {
	providers []llm.LLMProvider
	minScore  int
}

// NewProcessor builds a processor. minScore <= 0 selects the default
// relevance gate.
func NewProcessor(providers []llm.LLMProvider, minScore int) *Processor {
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	return &Processor{providers: providers, minScore: minScore}
}

// MinScore reports the relevance gate applied by ApplyToArticle.
func (p *Processor) MinScore() int {
	return p.minScore
}

// Process sends the article to the first provider that answers with
// parseable JSON. The returned usage names the model that produced the
// result.
func (p *Processor) Process(ctx context.Context, title, content, source string) (*Result, *llm.Usage, error) {
	if len(p.providers) == 0 {
		return nil, nil, errors.New("no LLM providers configured")
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(title, truncateRunes(content, maxContentRunes), source)},
	}

	var errs []error
	for _, provider := range p.providers {
		var usage llm.Usage
		raw, err := provider.Chat(ctx, messages,
			llm.WithTemperature(processTemperature),
			llm.WithMaxTokens(processMaxTokens),
			llm.WithJSONResponse(),
			llm.WithUsage(&usage),
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result, err := parseResult(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}
		return result, &usage, nil
	}

	return nil, nil, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}

func parseResult(raw string) (*Result, error) {
	payload, ok := llm.ExtractJSON(raw)
	if !ok {
		return nil, errors.New("no JSON object in response")
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	if result.TranslatedTitle == "" {
		return nil, errors.New("result missing translated_title")
	}
	if result.RelevanceScore < 0 {
		result.RelevanceScore = 0
	}
	if result.RelevanceScore > 100 {
		result.RelevanceScore = 100
	}
	return &result, nil
}

// ApplyToArticle writes the result onto the article and reports whether
// it clears the relevance gate. Articles below the gate keep the
// translation for auditing but should not be published.
func (p *Processor) ApplyToArticle(article *scrape.Article, result *Result) bool {
	article.RelevanceScore = result.RelevanceScore
	article.TranslatedTitle = result.TranslatedTitle
	article.TranslatedContent = result.TranslatedContent
	article.TranslatedSummary = truncateRunes(result.XSummary, maxSummaryRunes)

	categories := append([]string(nil), result.Categories...)
	for _, tag := range result.Hashtags {
		tag = strings.TrimLeft(tag, "#")
		if tag == "" || containsFold(categories, tag) {
			continue
		}
		categories = append(categories, tag)
	}
	if len(categories) == 0 && article.SourceAuthor != "" {
		categories = []string{article.SourceAuthor}
	}
	article.Categories = categories

	return result.RelevanceScore >= p.minScore
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
