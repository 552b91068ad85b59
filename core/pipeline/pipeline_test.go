package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/classify"
	"github.com/gaurav-prasanna/termscan/core/output"
	"github.com/gaurav-prasanna/termscan/core/pipeline"
	"github.com/gaurav-prasanna/termscan/core/render"
	"github.com/gaurav-prasanna/termscan/core/section"
	"github.com/gaurav-prasanna/termscan/core/tokenize"
)

type fakeFetcher struct {
	pages map[string]string
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) string {
	f.calls++
	return f.pages[url]
}

// lineTokenizer treats every input as a list of already split sentences
// separated by "|".
type lineTokenizer struct {
	err error
}

func (l lineTokenizer) Tokenize(text string) ([]core.Sentence, error) {
	if l.err != nil {
		return nil, l.err
	}
	if text == "" {
		return nil, nil
	}
	var out []core.Sentence
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '|' {
			out = append(out, core.Sentence{Index: len(out), Text: text[start:i]})
			start = i + 1
		}
	}
	return out, nil
}

type transitions struct {
	mu     sync.Mutex
	states []pipeline.State
}

func (tr *transitions) observe(_ string, from, to pipeline.State) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.states) == 0 {
		tr.states = append(tr.states, from)
	}
	tr.states = append(tr.states, to)
}

const scenarioA = "You have the right to cancel.|These are the terms of the agreement.|Rights may be waived."

func newPipeline(t *testing.T, fetcher core.ContentFetcher, tok core.SentenceTokenizer, opts ...pipeline.Option) (*pipeline.Pipeline, *output.Writer) {
	t.Helper()
	w, err := output.New(t.TempDir())
	require.NoError(t, err)
	return pipeline.New(fetcher, tok, render.NewPDFRenderer(), w, opts...), w
}

func TestAnalyzeURL_ScenarioA(t *testing.T) {
	tr := &transitions{}
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{pages: map[string]string{"https://example.com/tos": scenarioA}}
	p, _ := newPipeline(t, f, lineTokenizer{}, pipeline.WithObserver(tr.observe), pipeline.WithClock(func() time.Time { return fixed }))

	res, err := p.AnalyzeURL(context.Background(), "https://example.com/tos")
	require.NoError(t, err)

	assert.Equal(t, pipeline.Done, res.State)
	assert.Equal(t, "https://example.com/tos", res.URL)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, fixed, res.CreatedAt)
	assert.Equal(t, 3, res.Sentences)
	assert.Equal(t, 0, res.Unclassified)
	assert.Equal(t, []core.Section{
		{Title: "Rights", Subtitle: "You have the right to cancel.", Content: []string{"Rights may be waived."}},
		{Title: "Terms of Use", Subtitle: "These are the terms of the agreement.", Content: []string{section.NoContent}},
	}, res.Sections)

	assert.Equal(t, []pipeline.State{
		pipeline.Idle, pipeline.Fetching, pipeline.Tokenizing, pipeline.Classifying, pipeline.BuildingSections, pipeline.Done,
	}, tr.states)
}

func TestAnalyzeURL_ScenarioC_EmptyFetchDegrades(t *testing.T) {
	f := &fakeFetcher{}
	p, _ := newPipeline(t, f, tokenize.New())

	res, err := p.AnalyzeURL(context.Background(), "https://unreachable.invalid")
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, pipeline.Done, res.State)
	assert.Equal(t, 0, res.Sentences)

	require.Len(t, res.Sections, 2)
	for _, sec := range res.Sections {
		assert.Equal(t, section.NoSubtitle, sec.Subtitle)
		assert.Equal(t, []string{section.NoContent}, sec.Content)
	}
}

func TestAnalyze_TokenizerFailure(t *testing.T) {
	tr := &transitions{}
	boom := errors.New("boom")
	p, _ := newPipeline(t, &fakeFetcher{}, lineTokenizer{err: boom}, pipeline.WithObserver(tr.observe))

	res, err := p.Analyze(context.Background(), "<p>x</p>")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, pipeline.Tokenizing, stageErr.Stage)
	assert.Equal(t, pipeline.Failed, tr.states[len(tr.states)-1])
}

func TestAnalyze_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := newPipeline(t, &fakeFetcher{}, lineTokenizer{})
	_, err := p.AnalyzeURL(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.Canceled)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, pipeline.Idle, stageErr.Stage)
}

func TestAnalyze_CustomClassifier(t *testing.T) {
	c := classify.New(classify.Rule{Category: core.Rights, Match: classify.ContainsAny("cookie")})
	p, _ := newPipeline(t, &fakeFetcher{}, lineTokenizer{}, pipeline.WithClassifier(c))

	res, err := p.Analyze(context.Background(), "We use cookies.|Your rights.")
	require.NoError(t, err)
	assert.Equal(t, "We use cookies.", res.Sections[0].Subtitle)
	assert.Equal(t, 1, res.Unclassified)
}

func TestRender_ScenarioD_SecondRenderReplacesFirst(t *testing.T) {
	p, w := newPipeline(t, &fakeFetcher{}, lineTokenizer{})
	ctx := context.Background()

	first, err := p.Analyze(ctx, scenarioA)
	require.NoError(t, err)
	second, err := p.Analyze(ctx, "")
	require.NoError(t, err)

	a1, err := p.Render(ctx, first.Sections, "Website Analysis", "terms_analysis.pdf")
	require.NoError(t, err)
	a2, err := p.Render(ctx, second.Sections, "Website Analysis", "terms_analysis.pdf")
	require.NoError(t, err)
	assert.Equal(t, a1.Path, a2.Path)
	assert.NotEqual(t, a1.Data, a2.Data)

	onDisk, err := os.ReadFile(w.Path("terms_analysis.pdf"))
	require.NoError(t, err)
	assert.Equal(t, a2.Data, onDisk)

	direct, err := render.NewPDFRenderer().Render(core.Report{Title: "Website Analysis", Sections: second.Sections})
	require.NoError(t, err)
	assert.Equal(t, direct, onDisk)
}

func TestRender_UnsupportedCharacter(t *testing.T) {
	tr := &transitions{}
	p, w := newPipeline(t, &fakeFetcher{}, lineTokenizer{}, pipeline.WithObserver(tr.observe))

	sections := []core.Section{{Title: "Rights", Subtitle: "权利", Content: []string{section.NoContent}}}
	art, err := p.Render(context.Background(), sections, "Website Analysis", "terms_analysis.pdf")
	assert.Nil(t, art)
	require.Error(t, err)

	var rerr *core.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "terms_analysis.pdf", rerr.Artifact)
	assert.ErrorIs(t, err, core.ErrUnsupportedCharacter)
	assert.Equal(t, []pipeline.State{pipeline.Idle, pipeline.Rendering, pipeline.Failed}, tr.states)

	_, statErr := os.Stat(w.Path("terms_analysis.pdf"))
	assert.True(t, os.IsNotExist(statErr), "no artifact after a failed render")
}

func TestRender_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	w, err := output.New(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	p := pipeline.New(&fakeFetcher{}, lineTokenizer{}, render.NewPDFRenderer(), w)
	res, err := p.Analyze(context.Background(), scenarioA)
	require.NoError(t, err)

	_, err = p.Render(context.Background(), res.Sections, "Website Analysis", "terms_analysis.pdf")
	var rerr *core.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.NotErrorIs(t, err, core.ErrUnsupportedCharacter)
}

func TestRender_MissingSections(t *testing.T) {
	p, _ := newPipeline(t, &fakeFetcher{}, lineTokenizer{})
	_, err := p.Render(context.Background(), nil, "Website Analysis", "terms_analysis.pdf")
	assert.ErrorIs(t, err, core.ErrMissingSections)
}

func TestRun_EndToEnd(t *testing.T) {
	tr := &transitions{}
	f := &fakeFetcher{pages: map[string]string{"https://example.com": scenarioA}}
	p, w := newPipeline(t, f, lineTokenizer{}, pipeline.WithObserver(tr.observe))

	res, art, err := p.Run(context.Background(), "https://example.com", "Website Analysis", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, pipeline.Done, res.State)
	assert.Equal(t, w.Path("report.pdf"), art.Path)
	assert.FileExists(t, art.Path)
	assert.Equal(t, []pipeline.State{
		pipeline.Idle, pipeline.Fetching, pipeline.Tokenizing, pipeline.Classifying,
		pipeline.BuildingSections, pipeline.Rendering, pipeline.Done,
	}, tr.states)
}

func TestResult_JSONRoundTrip(t *testing.T) {
	p, _ := newPipeline(t, &fakeFetcher{}, lineTokenizer{})
	res, err := p.Analyze(context.Background(), scenarioA)
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"done"`)

	var back pipeline.Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, res.Sections, back.Sections)
	assert.Equal(t, pipeline.Done, back.State)
	assert.True(t, res.CreatedAt.Equal(back.CreatedAt))
}

func TestState_UnmarshalUnknown(t *testing.T) {
	var s pipeline.State
	assert.Error(t, s.UnmarshalText([]byte("sleeping")))
	assert.Equal(t, "state(99)", pipeline.State(99).String())
}
