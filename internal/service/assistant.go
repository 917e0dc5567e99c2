// README: Question pipeline orchestration; interpret, aggregate, assemble evidence, answer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"fetii/internal/ai"
	"fetii/internal/dataset"
	"fetii/internal/engine"
	"fetii/internal/evidence"
	"fetii/internal/query"
	"fetii/internal/viz"
)

// ErrNoDataset is returned when a question arrives before any workbook has
// been loaded.
var ErrNoDataset = errors.New("service: no dataset loaded")

// Answer is the full outcome of one question. Evidence and Result are
// always populated once a dataset is loaded, even when the answer model is
// unavailable, so callers can fall back to the raw numbers.
type Answer struct {
	Question     string         `json:"question"`
	Answer       string         `json:"answer"`
	Intent       query.Intent   `json:"intent"`
	Evidence     string         `json:"evidence"`
	RecordsFound int            `json:"records_found"`
	Result       *engine.Result `json:"result"`
	Chart        *viz.ChartSpec `json:"chart,omitempty"`
	Confidence   string         `json:"confidence"`
}

// Assistant answers analytics questions over the loaded dataset. The table
// is an immutable snapshot swapped wholesale on load, so questions running
// concurrently with a reload see a consistent dataset.
type Assistant struct {
	provider ai.AnswerProvider
	engine   *engine.Engine

	mu    sync.RWMutex
	table *dataset.Table
}

// NewAssistant creates an Assistant. provider may be nil, in which case
// every answer is the evidence-backed fallback text.
func NewAssistant(provider ai.AnswerProvider) *Assistant {
	return &Assistant{
		provider: provider,
		engine:   engine.New(),
	}
}

// NewAssistantWithEngine supports clock injection in tests.
func NewAssistantWithEngine(provider ai.AnswerProvider, eng *engine.Engine) *Assistant {
	return &Assistant{provider: provider, engine: eng}
}

// LoadWorkbook loads an Excel workbook and replaces the current dataset.
// On failure the previous dataset stays in place untouched.
func (a *Assistant) LoadWorkbook(path string) (engine.Summary, error) {
	table, err := dataset.LoadWorkbook(path)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("load workbook: %w", err)
	}
	a.mu.Lock()
	a.table = table
	a.mu.Unlock()
	return engine.Summarize(table), nil
}

// LoadSheets replaces the dataset from already-decoded sheets.
func (a *Assistant) LoadSheets(sheets []dataset.RawSheet) (engine.Summary, error) {
	table, err := dataset.Normalize(sheets)
	if err != nil {
		return engine.Summary{}, err
	}
	a.mu.Lock()
	a.table = table
	a.mu.Unlock()
	return engine.Summarize(table), nil
}

func (a *Assistant) snapshot() *dataset.Table {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table
}

// Summary profiles the currently loaded dataset.
func (a *Assistant) Summary() (engine.Summary, error) {
	table := a.snapshot()
	if table == nil {
		return engine.Summary{}, ErrNoDataset
	}
	return engine.Summarize(table), nil
}

// SearchDestinations returns fuzzy catalog suggestions for term.
func (a *Assistant) SearchDestinations(term string, limit int) ([]string, error) {
	table := a.snapshot()
	if table == nil {
		return nil, ErrNoDataset
	}
	return table.SimilarDestinations(term, limit), nil
}

// Ask runs the full pipeline for one question. A failing answer model never
// fails the call: the evidence and aggregates are computed locally and the
// answer degrades to a canned fallback.
func (a *Assistant) Ask(ctx context.Context, question string) (Answer, error) {
	table := a.snapshot()
	if table == nil {
		return Answer{}, ErrNoDataset
	}

	spec := query.NewInterpreter(table).Interpret(question)
	rows, result := a.engine.Run(spec, table)
	ev := evidence.Build(spec, rows, result, engine.Summarize(table))

	out := Answer{
		Question:     question,
		Intent:       spec.Intent,
		Evidence:     ev,
		RecordsFound: len(rows),
		Result:       result,
		Chart:        viz.Suggest(spec, result),
		Confidence:   "high",
	}

	if a.provider == nil {
		out.Answer = fallbackAnswer(nil)
		out.Confidence = "low"
		return out, nil
	}

	answer, err := a.provider.GenerateAnswer(ctx, question, ev)
	if err != nil {
		log.Printf("answer generation error: %v", err)
		out.Answer = fallbackAnswer(err)
		out.Confidence = "low"
		return out, nil
	}
	out.Answer = answer
	return out, nil
}

func fallbackAnswer(err error) string {
	if err != nil {
		return fmt.Sprintf("I encountered an error generating a narrative answer (%v). The computed statistics are included below; please consult them directly or try rephrasing your question.", err)
	}
	return "No answer model is configured. The computed statistics are included below; please consult them directly."
}
