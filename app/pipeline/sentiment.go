package pipeline

import (
	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// classifySentiment counts pattern hits from the positive and negative
// tables and always returns a label with its justification.
func classifySentiment(rs *rules.Ruleset, text string) (signal.Sentiment, string) {
	pos := len(rs.PositivePatterns.FindAllString(text, -1))
	neg := len(rs.NegativePatterns.FindAllString(text, -1))

	switch {
	case neg > pos && neg >= 2:
		return signal.SentimentNegative, "Multiple negative expressions detected"
	case neg > pos:
		return signal.SentimentNegative, "Negative language outweighs positive"
	case pos > neg && pos >= 2:
		return signal.SentimentPositive, "Multiple positive expressions detected"
	case pos > neg:
		return signal.SentimentPositive, "Positive language outweighs negative"
	case pos == neg && pos > 0:
		return signal.SentimentNeutral, "Mixed positive and negative signals"
	default:
		return signal.SentimentNeutral, "No strong sentiment indicators"
	}
}
