// Package pipeline orchestrates a termscan run:
// fetch → tokenize → classify → build sections → render.
//
// Analysis and rendering are separate operations. Analyze returns the
// sections as a Result value the caller can keep, store or serialize and
// later pass to Render. An empty fetch is not a failure: the run continues
// with no sentences and produces placeholder sections.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/classify"
	"github.com/gaurav-prasanna/termscan/core/output"
	"github.com/gaurav-prasanna/termscan/core/section"
)

// Result is the outcome of an analysis run.
type Result struct {
	ID           string         `json:"id"`
	URL          string         `json:"url,omitempty"`
	State        State          `json:"state"`
	Sections     []core.Section `json:"sections"`
	Sentences    int            `json:"sentences"`
	Unclassified int            `json:"unclassified"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Artifact is a rendered and persisted report.
type Artifact struct {
	Name string
	Path string
	Data []byte
}

// Pipeline wires the stages together. It holds no per-run state and is
// safe for concurrent use.
type Pipeline struct {
	fetcher    core.ContentFetcher
	tokenizer  core.SentenceTokenizer
	classifier *classify.Classifier
	builder    *section.Builder
	renderer   core.Renderer
	writer     *output.Writer
	observer   func(runID string, from, to State)
	now        func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClassifier replaces the default rule set.
func WithClassifier(c *classify.Classifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithObserver registers a callback invoked on every state transition.
func WithObserver(fn func(runID string, from, to State)) Option {
	return func(p *Pipeline) { p.observer = fn }
}

// WithClock sets the time source for Result.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline.
func New(fetcher core.ContentFetcher, tokenizer core.SentenceTokenizer, renderer core.Renderer, writer *output.Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    fetcher,
		tokenizer:  tokenizer,
		classifier: classify.New(),
		builder:    section.New(),
		renderer:   renderer,
		writer:     writer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run tracks the state of one invocation.
type run struct {
	id    string
	state State
}

func (p *Pipeline) newRun() *run {
	return &run{id: uuid.NewString(), state: Idle}
}

func (p *Pipeline) enter(ctx context.Context, r *run, next State) error {
	if err := ctx.Err(); err != nil {
		return p.fail(r, err)
	}
	p.move(r, next)
	return nil
}

func (p *Pipeline) move(r *run, next State) {
	log.Debug().Str("run", r.id).Stringer("from", r.state).Stringer("to", next).Msg("pipeline state")
	if p.observer != nil {
		p.observer(r.id, r.state, next)
	}
	r.state = next
}

// fail moves the run to Failed and wraps err with the stage it failed in.
func (p *Pipeline) fail(r *run, err error) error {
	stage := r.state
	p.move(r, Failed)
	log.Error().Err(err).Str("run", r.id).Stringer("stage", stage).Msg("pipeline failed")
	return &StageError{Stage: stage, Err: err}
}

// AnalyzeURL fetches rawURL and analyzes its content.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*Result, error) {
	r := p.newRun()
	html, err := p.fetch(ctx, r, rawURL)
	if err != nil {
		return nil, err
	}

	res, err := p.analyze(ctx, r, html)
	if err != nil {
		return nil, err
	}
	res.URL = rawURL
	p.move(r, Done)
	res.State = Done
	return res, nil
}

// fetch never fails on empty content; only a canceled context stops the run.
func (p *Pipeline) fetch(ctx context.Context, r *run, rawURL string) (string, error) {
	if err := p.enter(ctx, r, Fetching); err != nil {
		return "", err
	}
	html := p.fetcher.Fetch(ctx, rawURL)
	if html == "" {
		log.Warn().Str("run", r.id).Str("url", rawURL).Msg("fetch degraded; building placeholder sections")
	}
	return html, nil
}

// Analyze classifies already rendered HTML.
func (p *Pipeline) Analyze(ctx context.Context, html string) (*Result, error) {
	r := p.newRun()
	res, err := p.analyze(ctx, r, html)
	if err != nil {
		return nil, err
	}
	p.move(r, Done)
	res.State = Done
	return res, nil
}

func (p *Pipeline) analyze(ctx context.Context, r *run, html string) (*Result, error) {
	if err := p.enter(ctx, r, Tokenizing); err != nil {
		return nil, err
	}
	sentences, err := p.tokenizer.Tokenize(html)
	if err != nil {
		return nil, p.fail(r, fmt.Errorf("tokenize: %w", err))
	}

	if err := p.enter(ctx, r, Classifying); err != nil {
		return nil, err
	}
	classified, dropped := p.classifier.Classify(sentences)
	log.Debug().Str("run", r.id).Int("sentences", len(sentences)).Int("unclassified", dropped).Msg("classified sentences")

	if err := p.enter(ctx, r, BuildingSections); err != nil {
		return nil, err
	}
	sections := p.builder.Build(classified)

	return &Result{
		ID:           r.id,
		State:        r.state,
		Sections:     sections,
		Sentences:    len(sentences),
		Unclassified: dropped,
		CreatedAt:    p.now().UTC(),
	}, nil
}

// Render renders the sections under title and persists the artifact as
// name, replacing any previous artifact with that name. On failure no
// artifact is returned.
func (p *Pipeline) Render(ctx context.Context, sections []core.Section, title, name string) (*Artifact, error) {
	if len(sections) == 0 {
		return nil, core.ErrMissingSections
	}
	r := p.newRun()
	return p.render(ctx, r, core.Report{Title: title, Sections: sections}, name)
}

func (p *Pipeline) render(ctx context.Context, r *run, report core.Report, name string) (*Artifact, error) {
	if err := p.enter(ctx, r, Rendering); err != nil {
		return nil, err
	}

	data, err := p.renderer.Render(report)
	if err != nil {
		var rerr *core.RenderError
		if !errors.As(err, &rerr) {
			err = &core.RenderError{Artifact: name, Err: err}
		}
		return nil, p.fail(r, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(r, err)
	}

	path, err := p.writer.Write(name, data)
	if err != nil {
		return nil, p.fail(r, &core.RenderError{Artifact: name, Err: err})
	}

	p.move(r, Done)
	log.Info().Str("run", r.id).Str("path", path).Int("bytes", len(data)).Msg("report written")
	return &Artifact{Name: name, Path: path, Data: data}, nil
}

// Run analyzes rawURL and renders the report in one invocation.
func (p *Pipeline) Run(ctx context.Context, rawURL, title, name string) (*Result, *Artifact, error) {
	r := p.newRun()
	html, err := p.fetch(ctx, r, rawURL)
	if err != nil {
		return nil, nil, err
	}

	res, err := p.analyze(ctx, r, html)
	if err != nil {
		return nil, nil, err
	}
	res.URL = rawURL

	art, err := p.render(ctx, r, core.Report{Title: title, Sections: res.Sections}, name)
	if err != nil {
		return nil, nil, err
	}
	res.State = Done
	return res, art, nil
}
