package cli

import (
	"context"
	"time"

	"github.com/tarotara/tarotara/internal/cache"
	"github.com/tarotara/tarotara/internal/deck"
	"github.com/tarotara/tarotara/internal/guard"
	"github.com/tarotara/tarotara/internal/intent"
	"github.com/tarotara/tarotara/internal/observe"
	"github.com/tarotara/tarotara/internal/plugin"
	"github.com/tarotara/tarotara/internal/provider"
	"github.com/tarotara/tarotara/internal/reading"
	"github.com/tarotara/tarotara/internal/retriever"
	"github.com/tarotara/tarotara/internal/session"
	"github.com/tarotara/tarotara/internal/store"
	"github.com/tarotara/tarotara/internal/translate"
	"github.com/tarotara/tarotara/internal/ui"
)

// Options tunes how a runner wires the pipeline.
type Options struct {
	CorpusDir  string
	PluginPath string
	Language   string
	Offline    bool // keyword classification and no translation, for stub runs
	Seed       int64
	TTL        time.Duration
	Policy     *guard.Policy // nil means guard.DefaultPolicy
}

// Runner owns one reading session: the provider, the reader pipeline and the
// session context questions are asked against.
type Runner struct {
	Observer  *observe.Observer
	Store     store.Storage
	Provider  provider.Provider
	Reader    *reading.Reader
	Sessions  *session.Manager
	Guard     *guard.Guard
	UI        ui.UI
	generator *reading.ModelGenerator
	sessionID string
	sess      *session.Context
	closers   []func()
}

func NewRunner(obs *observe.Observer, s store.Storage, p provider.Provider, u ui.UI, opts Options) (*Runner, error) {
	if u == nil {
		u = ui.SilentUI{}
	}
	if opts.Language == "" {
		opts.Language = translate.Canonical
	}

	policy := guard.DefaultPolicy
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	r := &Runner{
		Observer: obs,
		Store:    s,
		Provider: p,
		Sessions: session.NewManager(),
		Guard:    guard.New(policy),
		UI:       u,
	}

	var ret *retriever.Retriever
	if opts.CorpusDir != "" {
		ret = retriever.New(s, p, opts.CorpusDir)
		ret.SetGlobs(policy.CorpusGlobs)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := reading.NewModelGenerator(p, ret, deck.New(seed), obs)
	if prof, err := s.GetProfile("default"); err == nil && prof != nil {
		gen.SetProfile(prof)
	}
	r.generator = gen

	var generator reading.Generator = gen
	if opts.PluginPath != "" {
		interp, closePlugin, err := plugin.Open(opts.PluginPath)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, closePlugin)
		generator = plugin.WrapGenerator(gen, interp, obs)
		obs.Log().Info().Str("plugin", interp.Name()).Msg("interpreter plugin attached")
	}

	var translator translate.Service
	var classifier intent.Classifier
	if opts.Offline {
		translator = translate.Noop{}
		classifier = intent.NewKeywordClassifier()
	} else {
		translator = translate.NewModelTranslator(p)
		classifier = intent.NewModelClassifier(p)
	}

	// Read r.UI at event time: chat swaps in the TUI after construction.
	events := reading.NewBus()
	events.SubscribeAll(func(e reading.Event) {
		r.UI.UpdateStage(stageTitle(e.Type))
	})

	r.Reader = reading.NewReader(reading.Config{
		Cache:      cache.New(),
		Translator: translator,
		Classifier: classifier,
		Generator:  generator,
		Store:      s,
		Observer:   obs,
		Events:     events,
		TTL:        opts.TTL,
	})

	r.sessionID, r.sess = r.Sessions.Open(opts.Language)
	return r, nil
}

// ask runs one guarded question through the pipeline. Policy violations
// short-circuit before the pipeline runs.
func (r *Runner) ask(ctx context.Context, question string) *reading.Response {
	if v := r.Guard.CheckQuestion(question, r.sess.Len()); v != nil {
		r.Observer.Log().Warn().Str("rule", v.Rule).Msg(v.Message)
		return &reading.Response{Text: v.Message, Warnings: []string{v.Message}}
	}
	if prompt, output := r.generator.Usage(); r.Guard.CheckBudget(prompt, output) != nil {
		msg := "Token budget for this session is spent."
		r.Observer.Log().Warn().Int("prompt", prompt).Int("output", output).Msg(msg)
		return &reading.Response{Text: msg, Warnings: []string{msg}}
	}

	return r.Reader.Ask(ctx, r.sessionID, r.sess, question)
}

// Ask runs one question and pushes the outcome to the UI.
func (r *Runner) Ask(ctx context.Context, question string) *reading.Response {
	resp := r.ask(ctx, question)
	for _, w := range resp.Warnings {
		r.UI.Log(w)
	}
	r.UI.ShowReading(resp.Text)
	for _, text := range resp.Translations {
		r.UI.ShowReading(text)
	}
	return resp
}

// SessionID returns the ID readings are archived under.
func (r *Runner) SessionID() string {
	return r.sessionID
}

// Close releases the runner's resources. The store stays open; it belongs to
// the caller.
func (r *Runner) Close() {
	r.Sessions.Close(r.sessionID)
	for _, fn := range r.closers {
		fn()
	}
}

func stageTitle(t reading.EventType) string {
	switch t {
	case reading.EventTranslating:
		return "Reading your question"
	case reading.EventClassifying:
		return "Sensing your intent"
	case reading.EventCacheHit:
		return "Recalling an earlier reading"
	case reading.EventGenerating:
		return "Consulting the cards"
	case reading.EventContextUpdated:
		return "Remembering this moment"
	case reading.EventFormatted:
		return "Laying out the spread"
	case reading.EventFailed:
		return "The cards are silent"
	default:
		return string(t)
	}
}
