// Package stream paces the final response text out to the client. Short
// replies are typed character by character, medium ones word by word, and
// long catalog dumps line by line.
package stream

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
)

// DoneSentinel terminates every stream. It is framing, not content.
const DoneSentinel = "[DONE]"

const (
	truncationMarker = "Found 200 products:"
	catalogSize      = 200

	orderFooter = "\n\nTo place an order for any of these products, please contact our sales team or visit our website. Note: This demo doesn't process actual orders."
)

type Config struct {
	CharThreshold     int           `envconfig:"CHAR_THRESHOLD" split_words:"true" default:"200"`
	WordThreshold     int           `envconfig:"WORD_THRESHOLD" split_words:"true" default:"1000"`
	CharDelay         time.Duration `envconfig:"CHAR_DELAY" split_words:"true" default:"40ms"`
	WordDelay         time.Duration `envconfig:"WORD_DELAY" split_words:"true" default:"80ms"`
	LineDelay         time.Duration `envconfig:"LINE_DELAY" split_words:"true" default:"100ms"`
	MaxProducts       int           `envconfig:"MAX_PRODUCTS" split_words:"true" default:"8"`
	TruncationEnabled bool          `envconfig:"TRUNCATION_ENABLED" split_words:"true" default:"true"`
}

type Presenter struct {
	cfg Config
}

func New(cfg Config) *Presenter {
	if cfg.CharThreshold <= 0 {
		cfg.CharThreshold = 200
	}
	if cfg.WordThreshold <= 0 {
		cfg.WordThreshold = 1000
	}
	if cfg.MaxProducts <= 0 {
		cfg.MaxProducts = 8
	}
	return &Presenter{cfg: cfg}
}

// Stream yields the paced chunk sequence for one response, terminated by
// DoneSentinel. The sequence is finite and not restartable. Disconnects
// are polled via ctx before every emission; the sentinel is still sent
// after a disconnect because writing to a dead connection is harmless.
func (p *Presenter) Stream(ctx context.Context, text string, intent contractx.Intent) iter.Seq[string] {
	text = p.truncateCatalog(text)
	if intent == contractx.IntentPlaceOrder {
		text += orderFooter
	}

	length := utf8.RuneCountInString(text)
	log.Debug().Int("chars", length).Str("intent", string(intent)).Msg("streaming response")

	return func(yield func(string) bool) {
		var completed bool
		switch {
		case length <= p.cfg.CharThreshold:
			completed = p.emit(ctx, splitCharacters(text), p.cfg.CharDelay, yield)
		case length <= p.cfg.WordThreshold:
			completed = p.emit(ctx, splitWords(text), p.cfg.WordDelay, yield)
		default:
			completed = p.emit(ctx, splitLines(text), p.cfg.LineDelay, yield)
		}
		if completed {
			yield(DoneSentinel)
		}
	}
}

// emit yields each chunk with a pacing delay in between. It returns false
// only when the consumer stopped the iteration; a context disconnect just
// cuts the content short so the sentinel still follows.
func (p *Presenter) emit(ctx context.Context, chunks []string, delay time.Duration, yield func(string) bool) bool {
	for _, chunk := range chunks {
		if ctx.Err() != nil {
			log.Debug().Msg("client disconnected, stopping stream")
			return true
		}
		if !yield(chunk) {
			return false
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
	}
	return true
}

func splitCharacters(text string) []string {
	chunks := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		chunks = append(chunks, string(r))
	}
	return chunks
}

func splitWords(text string) []string {
	words := strings.Split(text, " ")
	chunks := make([]string, 0, len(words))
	for _, word := range words {
		chunks = append(chunks, word+" ")
	}
	return chunks
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, len(lines))
	for _, line := range lines {
		chunks = append(chunks, line+"\n")
	}
	return chunks
}

// truncateCatalog trims the 200-product catalog dump down to the first few
// product entries, keeping the summary line and pointing the customer at
// search instead.
func (p *Presenter) truncateCatalog(text string) string {
	if !p.cfg.TruncationEnabled {
		return text
	}
	if !strings.HasPrefix(text, truncationMarker) {
		return text
	}

	lines := strings.Split(text, "\n")
	summary := lines[0]

	qualifying := 0
	products := make([]string, 0, p.cfg.MaxProducts)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, "[") {
			continue
		}
		qualifying++
		if len(products) < p.cfg.MaxProducts {
			products = append(products, line)
		}
	}

	truncated := summary + "\n\n" + strings.Join(products, "\n\n")
	if qualifying > p.cfg.MaxProducts {
		truncated += fmt.Sprintf(
			"\n\n... and %d more products.\nType 'search [keyword]' to find specific items or 'list monitors' for category browsing.",
			catalogSize-p.cfg.MaxProducts)
	}

	log.Debug().Int("chars", len(truncated)).Msg("truncated catalog listing")
	return truncated
}
