// Package reading composes translation, classification, the cache, and the
// generation pipeline into per-request tarot readings.
package reading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarotara/tarotara/internal/cache"
	"github.com/tarotara/tarotara/internal/intent"
	"github.com/tarotara/tarotara/internal/observe"
	"github.com/tarotara/tarotara/internal/session"
	"github.com/tarotara/tarotara/internal/store"
	"github.com/tarotara/tarotara/internal/translate"
)

// ErrGeneration marks a failure of the generation pipeline.
var ErrGeneration = errors.New("generation failed")

// RefusalMessage is returned verbatim for factual questions: the reader
// declines factual claims.
const RefusalMessage = "Sorry, I cannot provide factual information at the moment. Please ask a tarot-related question."

const warnPrefix = "⚠️ "

func warn(format string, args ...any) string {
	return warnPrefix + fmt.Sprintf(format, args...)
}

// Result is the structured outcome of one reading. Date ranges are held as
// ISO-8601 date strings so the value is directly representable in the cache
// and the archive.
type Result struct {
	Interpretation string   `json:"interpretation"`
	Card           string   `json:"card,omitempty"`
	Cards          []string `json:"cards,omitempty"`
	DateRange      []string `json:"date_range,omitempty"`
	Intent         string   `json:"intent,omitempty"`
}

// Response is what one question produces: the formatted canonical text plus
// any per-language renderings and request-scoped warnings.
type Response struct {
	Text         string
	Detected     string
	Translations map[string]string
	Intent       intent.Label
	CacheHit     bool
	Result       *Result
	Warnings     []string
}

// Generator produces a reading result for a canonical-language question.
type Generator interface {
	Generate(ctx context.Context, question string, label intent.Label, history []session.Turn) (*Result, error)
}

// Reader owns one pass of the request pipeline:
// Translating → Classifying → CacheCheck → {CacheHit | Generating} →
// ContextUpdate → Formatting → BackTranslating.
type Reader struct {
	cache      *cache.Cache
	translator translate.Service
	classifier intent.Classifier
	generator  Generator
	store      store.Storage
	observe    *observe.Observer
	events     *Bus
	ttl        time.Duration
}

// Config carries the reader's collaborators. Cache, Translator, Classifier,
// Generator and Observer are required; Store and Events are optional.
type Config struct {
	Cache      *cache.Cache
	Translator translate.Service
	Classifier intent.Classifier
	Generator  Generator
	Store      store.Storage
	Observer   *observe.Observer
	Events     *Bus
	TTL        time.Duration
}

func NewReader(cfg Config) *Reader {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	events := cfg.Events
	if events == nil {
		events = NewBus()
	}
	return &Reader{
		cache:      cfg.Cache,
		translator: cfg.Translator,
		classifier: cfg.Classifier,
		generator:  cfg.Generator,
		store:      cfg.Store,
		observe:    cfg.Observer,
		events:     events,
		ttl:        ttl,
	}
}

// Events returns the bus the reader publishes pipeline stages on.
func (r *Reader) Events() *Bus {
	return r.events
}

// CacheKey normalizes a question into its cache key. Keys derive from the
// original (pre-translation) question, so the same question phrased in two
// languages caches separately.
func CacheKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Ask runs one question through the pipeline. External failures never
// propagate as errors: each is degraded into a warning on the response, and
// the worst case is a response whose text is the warning itself.
func (r *Reader) Ask(ctx context.Context, sessionID string, sess *session.Context, question string) *Response {
	ctx, span := r.observe.StartSpan(ctx, "Ask")
	defer span.End()

	resp := &Response{
		Detected:     translate.Canonical,
		Translations: map[string]string{},
	}

	// Translating
	r.events.Publish(Event{Type: EventTranslating, SessionID: sessionID})
	translated := question
	if detected, err := r.translator.Detect(ctx, question); err != nil {
		resp.Warnings = append(resp.Warnings, warn("Could not detect your language: %v", err))
		r.observe.Log().Warn().Err(err).Msg("language detection failed, assuming canonical")
	} else {
		resp.Detected = detected
		if detected != translate.Canonical {
			t, err := r.translator.Translate(ctx, question, detected, translate.Canonical)
			if err != nil {
				resp.Warnings = append(resp.Warnings, warn("Could not translate your question: %v", err))
				r.observe.Log().Warn().Err(err).Msg("translation failed, using original text")
			} else {
				translated = t
			}
		}
	}

	// Classifying
	r.events.Publish(Event{Type: EventClassifying, SessionID: sessionID})
	label, err := r.classifier.Classify(ctx, translated)
	if err != nil {
		label = intent.General
		resp.Warnings = append(resp.Warnings, warn("Could not classify your question: %v", err))
		r.observe.Log().Warn().Err(err).Msg("classification failed, defaulting to general")
	}
	resp.Intent = label

	// CacheCheck, keyed on the original question.
	key := CacheKey(question)
	var result *Result
	if cached, ok := r.cache.Get(key); ok {
		result = cached.(*Result)
		resp.CacheHit = true
		r.events.Publish(Event{Type: EventCacheHit, SessionID: sessionID})
		r.observe.Log().Info().Str("key", key).Msg("serving reading from cache")
	} else {
		r.events.Publish(Event{Type: EventGenerating, SessionID: sessionID})
		result, err = r.generator.Generate(ctx, translated, label, sess.History())
		if err != nil {
			r.observe.Log().Error().Err(err).Msg("generation failed")
			msg := warn("The cards are out of reach right now: %v", err)
			resp.Warnings = append(resp.Warnings, msg)
			resp.Text = msg
			sess.AddEntry(question, translated, string(label), nil)
			r.events.Publish(Event{Type: EventFailed, SessionID: sessionID})
			return resp
		}
		result.Intent = string(label)
		normalizeDateRange(result)
		r.cache.Set(key, result, r.ttl)
	}
	resp.Result = result

	// ContextUpdate, hit or miss.
	sess.AddEntry(question, translated, string(label), result)
	r.events.Publish(Event{Type: EventContextUpdated, SessionID: sessionID})

	// Formatting
	resp.Text = Format(result, label)
	r.events.Publish(Event{Type: EventFormatted, SessionID: sessionID})

	r.archive(sessionID, question, label, resp.Text)

	// BackTranslating: once for the detected input language, and once for
	// the session's preferred language. Both may be shown.
	for _, lang := range []string{resp.Detected, sess.Language()} {
		if lang == translate.Canonical {
			continue
		}
		if _, done := resp.Translations[lang]; done {
			continue
		}
		back, err := r.translator.Translate(ctx, resp.Text, translate.Canonical, lang)
		if err != nil {
			resp.Warnings = append(resp.Warnings, warn("Could not translate the reading to %s: %v", lang, err))
			r.observe.Log().Warn().Str("lang", lang).Err(err).Msg("back-translation failed")
			continue
		}
		resp.Translations[lang] = back
	}

	return resp
}

func (r *Reader) archive(sessionID, question string, label intent.Label, text string) {
	if r.store == nil {
		return
	}
	err := r.store.SaveReading(&store.Reading{
		ID:        fmt.Sprintf("reading-%d", time.Now().UnixNano()),
		SessionID: sessionID,
		Question:  question,
		Intent:    string(label),
		Text:      text,
		CreatedAt: time.Now(),
	})
	if err != nil {
		r.observe.Log().Warn().Err(err).Msg("failed to archive reading")
	}
}

// normalizeDateRange canonicalizes the date range to ISO-8601 date strings.
// A range that cannot be parsed is dropped rather than cached malformed.
func normalizeDateRange(result *Result) {
	if len(result.DateRange) != 2 {
		result.DateRange = nil
		return
	}
	for i, d := range result.DateRange {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(d))
		if err != nil {
			result.DateRange = nil
			return
		}
		result.DateRange[i] = t.Format("2006-01-02")
	}
}
