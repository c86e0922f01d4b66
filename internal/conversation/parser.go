// Package conversation provides command parsing and user notification
// implementations for the prompt loop.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches prompt input to intents using keywords and simple
// patterns. Commands that carry an argument (upload, add, remove, fav, open)
// get it in the intent payload.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	intent  domain.IntentType
	payload bool // capture group 2 becomes the payload
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(snap|capture|photo|shoot)$`), intent: domain.IntentSnap},
		{regex: regexp.MustCompile(`(?i)^(stop|stop camera|release)$`), intent: domain.IntentStopCamera},
		{regex: regexp.MustCompile(`(?i)^(upload|file|detect)\s+(.+)$`), intent: domain.IntentUpload, payload: true},
		{regex: regexp.MustCompile(`(?i)^(watch|watch drops)$`), intent: domain.IntentWatch},
		{regex: regexp.MustCompile(`(?i)^(unwatch|stop watching)$`), intent: domain.IntentUnwatch},
		{regex: regexp.MustCompile(`(?i)^(add|put)\s+(.+)$`), intent: domain.IntentAddItem, payload: true},
		{regex: regexp.MustCompile(`(?i)^(remove|rm|drop|delete)\s+(.+)$`), intent: domain.IntentRemoveItem, payload: true},
		{regex: regexp.MustCompile(`(?i)^(clear|empty|reset)$`), intent: domain.IntentClearBasket},
		{regex: regexp.MustCompile(`(?i)^(basket|items|list)$`), intent: domain.IntentShowBasket},
		{regex: regexp.MustCompile(`(?i)^(suggest|recipes|recommend|cook|what can i make\??)$`), intent: domain.IntentSuggest},
		{regex: regexp.MustCompile(`(?i)^(browse|all|catalog)$`), intent: domain.IntentBrowse},
		{regex: regexp.MustCompile(`(?i)^(favorites|favs|saved)$`), intent: domain.IntentFavorites},
		{regex: regexp.MustCompile(`(?i)^(fav|favorite|heart)\s+(\d+)$`), intent: domain.IntentToggleFav, payload: true},
		{regex: regexp.MustCompile(`(?i)^(open|show|view)\s+(\d+)$`), intent: domain.IntentOpen, payload: true},
		{regex: regexp.MustCompile(`(?i)^(next|n|more)$`), intent: domain.IntentNextPage},
		{regex: regexp.MustCompile(`(?i)^(prev|previous|p|back)$`), intent: domain.IntentPrevPage},
		{regex: regexp.MustCompile(`(?i)^(refresh|reload|sync)$`), intent: domain.IntentRefresh},
		{regex: regexp.MustCompile(`(?i)^(status|info|where)$`), intent: domain.IntentStatus},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q)$`), intent: domain.IntentQuit},
	}
	return p
}

// Parse converts prompt input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number opens that card.
	if isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentOpen, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.payload {
			intent.Payload = strings.TrimSpace(m[2])
		}
		return intent, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
