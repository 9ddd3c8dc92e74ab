package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"journalwatch/internal/domain"
	"journalwatch/internal/ports"
)

// insufficientDataSummary marks articles that were never sent to the model.
const insufficientDataSummary = "Insufficient data for analysis"

// Analyzer scores publications against the configured interest profile via
// a language-model backend. Backend failures are embedded into the result
// as placeholder text; one bad article never aborts a batch.
type Analyzer struct {
	client          ports.ModelClient
	relevancePrompt string
	summaryPrompt   string
	logger          *slog.Logger
}

var _ ports.Analyzer = (*Analyzer)(nil)

// NewAnalyzer wires the model client with interest-interpolated prompts.
func NewAnalyzer(client ports.ModelClient, relevancePrompt, summaryPrompt string, log *slog.Logger) *Analyzer {
	return &Analyzer{
		client:          client,
		relevancePrompt: relevancePrompt,
		summaryPrompt:   summaryPrompt,
		logger:          log,
	}
}

// Analyze runs the per-article state machine: precondition check, relevance
// call, explanation extraction, then a summary call tiered by score.
func (a *Analyzer) Analyze(ctx context.Context, article domain.Article) domain.Analysis {
	if article.Title == "" || article.Abstract == "" {
		return domain.Analysis{
			Score:   0,
			Outcome: domain.OutcomeInsufficientData,
			Summary: insufficientDataSummary,
		}
	}

	score, outcome, explanation := a.determineRelevance(ctx, article)

	analysis := domain.Analysis{
		Score:       score,
		Outcome:     outcome,
		Explanation: explanation,
	}

	switch {
	case score >= 7:
		analysis.Summary = a.generateSummary(ctx, article, score, true)
	case score >= 5:
		analysis.Summary = a.generateSummary(ctx, article, score, false)
	default:
		// No model call below the brief tier; the message is synthesized
		// from the relevance explanation.
		analysis.Summary = lowRelevanceSummary(score, explanation)
	}

	return analysis
}

func (a *Analyzer) determineRelevance(ctx context.Context, article domain.Article) (int, domain.AnalysisOutcome, string) {
	prompt := fmt.Sprintf("%s\n\nTitle: %s\n\nAbstract: %s\n\n",
		a.relevancePrompt, article.Title, article.Abstract)

	response, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.warn("relevance call failed", "title", article.Title, "error", err)
		return 0, domain.OutcomeExtractionFailed, fmt.Sprintf("Error analyzing relevance: %v", err)
	}

	score, matcher, ok := extractScore(response)
	explanation := extractExplanation(response)
	if !ok {
		// A zero here is an artifact of unparseable output, not a rating.
		a.warn("no relevance pattern matched in model output", "title", article.Title)
		return 0, domain.OutcomeExtractionFailed, explanation
	}

	a.debug("relevance extracted", "title", article.Title, "score", score, "matcher", matcher)
	return score, domain.OutcomeScored, explanation
}

func (a *Analyzer) generateSummary(ctx context.Context, article domain.Article, score int, detailed bool) string {
	prompt := fmt.Sprintf("%s\n\nJournal: %s\nTitle: %s\nAbstract: %s\n\nThis publication has been rated %d/10 for relevance.\n\n",
		a.summaryPrompt, article.Journal, article.Title, article.Abstract, score)

	if detailed {
		prompt += "Structure your response into a \"Summary\" section describing the key findings and a \"Relevance\" section explaining the fit to the stated interests.\n"
	} else {
		prompt += "IMPORTANT: Be EXTREMELY concise. Limit your entire response to 1-2 sentences total.\nJust provide a single concise statement about what the paper does.\n"
	}

	response, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.warn("summary call failed", "title", article.Title, "error", err)
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	return strings.TrimSpace(response)
}

// lowRelevanceSummary is the deterministic message used below the brief
// tier, embedding the relevance explanation.
func lowRelevanceSummary(score int, explanation string) string {
	if explanation == "" {
		explanation = "No explanation provided."
	}
	return fmt.Sprintf(
		"## Low Relevance\n\nThis publication has a relevance score of %d/10.\n\n"+
			"**Reason for low relevance:** %s\n\n"+
			"No detailed summary was generated due to the low relevance score.",
		score, explanation)
}

func (a *Analyzer) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Analyzer) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
