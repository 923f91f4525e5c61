package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/drxyu/cerebras-code-scanner/internal/prompts"
	"github.com/drxyu/cerebras-code-scanner/internal/provider"
)

// ErrNoFiles is returned when the scan target yields nothing to analyze.
var ErrNoFiles = errors.New("no scannable files found")

// EngineConfig controls a scan run.
type EngineConfig struct {
	Model                string
	Batcher              BatcherConfig
	SubcategoryBatchSize int
	Concurrency          int
	Categories           []string // optional category filter
	SubcategoryIDs       []string // optional subcategory id filter
	LegacyMode           bool     // one general prompt per category, one file per call
}

// Engine orchestrates a scan: collect and read files, batch them under
// the token budget, compose one prompt per (file batch, category,
// subcategory batch), call the model, and aggregate responses into
// per-file records.
type Engine struct {
	config    EngineConfig
	completer provider.Completer
	repo      *prompts.Repository
}

// NewEngine creates a new Engine.
func NewEngine(config EngineConfig, completer provider.Completer, repo *prompts.Repository) *Engine {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.SubcategoryBatchSize <= 0 {
		config.SubcategoryBatchSize = DefaultSubcategoryBatchSize
	}
	if config.Batcher.MaxTokens <= 0 {
		config.Batcher = DefaultBatcherConfig()
	}
	return &Engine{config: config, completer: completer, repo: repo}
}

// job is one model call: a composed prompt plus everything needed to
// attribute its response.
type job struct {
	prompt ComposedPrompt
	batch  FileBatch  // multi-file jobs
	single SourceFile // single-file jobs (legacy mode and ScanFile)
	multi  bool
}

// jobResult is the exclusively-owned partial output of one job, merged
// into the shared result in job order after all workers finish.
type jobResult struct {
	records []AnalysisRecord
	err     *ScanError
}

// Run scans a directory target. Gateway failures are isolated per batch:
// a failed call yields zero records for that prompt and is reported in
// Report.Errors, while sibling batches proceed.
func (e *Engine) Run(ctx context.Context, target ScanTarget) (*Report, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled before start: %w", err)
	}

	paths, err := CollectFiles(target)
	if err != nil {
		return nil, fmt.Errorf("collecting files: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	files, empty, readErrs := ReadSourceFiles(target.RootDir, paths)
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	byLanguage := groupByLanguage(files)

	var jobs []job
	batchCount := 0
	for _, lang := range languageOrder(files) {
		langFiles := byLanguage[lang]
		if e.config.LegacyMode {
			for _, f := range langFiles {
				jobs = append(jobs, e.legacyJobs(f)...)
			}
			continue
		}

		batches := BatchFiles(langFiles, e.config.Batcher)
		batchCount += len(batches)
		for _, batch := range batches {
			batchJobs, err := e.batchJobs(batch)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, batchJobs...)
		}
	}

	results, scanErrs := e.runJobs(ctx, jobs)
	scanErrs = append(readErrs, scanErrs...)

	report := e.buildReport(target.RootDir, files, results, scanErrs)
	report.Stats.Duration = time.Since(start)
	report.Stats.EmptyFiles = empty
	report.Stats.FilesSkipped = len(paths) - len(files) - empty
	report.Stats.FileBatches = batchCount
	return report, nil
}

// ScanFile scans a single file with per-file prompts (no FILE markers).
func (e *Engine) ScanFile(ctx context.Context, path string) (*Report, error) {
	start := time.Now()

	dir := filepath.Dir(path)
	files, empty, readErrs := ReadSourceFiles(dir, []string{filepath.Base(path)})
	if len(files) == 0 {
		if len(readErrs) > 0 {
			return nil, fmt.Errorf("reading %s: %w", path, readErrs[0].Err)
		}
		return nil, ErrNoFiles
	}

	f := files[0]
	var jobs []job
	if e.config.LegacyMode {
		jobs = e.legacyJobs(f)
	} else {
		var err error
		jobs, err = e.singleJobs(f)
		if err != nil {
			return nil, err
		}
	}

	results, scanErrs := e.runJobs(ctx, jobs)
	scanErrs = append(readErrs, scanErrs...)

	report := e.buildReport(dir, files, results, scanErrs)
	report.Stats.Duration = time.Since(start)
	report.Stats.EmptyFiles = empty
	return report, nil
}

// batchJobs composes one job per (category, subcategory batch) for a
// multi-file batch.
func (e *Engine) batchJobs(batch FileBatch) ([]job, error) {
	var jobs []job
	for _, cat := range e.selectedCategories(batch.Language) {
		subs := e.repo.Subcategories(string(batch.Language), []string{cat}, e.config.SubcategoryIDs)
		if len(subs) == 0 {
			continue
		}
		for _, subBatch := range Chunk(subs, e.config.SubcategoryBatchSize) {
			prompt, err := ComposeBatch(batch, cat, subBatch)
			if err != nil {
				return nil, fmt.Errorf("composing prompt: %w", err)
			}
			jobs = append(jobs, job{prompt: prompt, batch: batch, multi: true})
		}
	}
	return jobs, nil
}

// singleJobs composes one job per (category, subcategory batch) for one
// file.
func (e *Engine) singleJobs(f SourceFile) ([]job, error) {
	var jobs []job
	for _, cat := range e.selectedCategories(f.Language) {
		subs := e.repo.Subcategories(string(f.Language), []string{cat}, e.config.SubcategoryIDs)
		if len(subs) == 0 {
			continue
		}
		for _, subBatch := range Chunk(subs, e.config.SubcategoryBatchSize) {
			prompt, err := ComposeSingle(f, cat, subBatch)
			if err != nil {
				return nil, fmt.Errorf("composing prompt: %w", err)
			}
			jobs = append(jobs, job{prompt: prompt, single: f})
		}
	}
	return jobs, nil
}

// legacyJobs composes the legacy-mode jobs for one file: one general
// prompt per category, no subcategory batching.
func (e *Engine) legacyJobs(f SourceFile) []job {
	var jobs []job
	for _, cat := range prompts.LegacyCategories() {
		id := prompts.LegacySubcategoryID(string(f.Language), cat)
		tmpl, ok := e.repo.Lookup(string(f.Language), cat, id)
		if !ok {
			log.Printf("no %s prompt for %s, skipping", cat, f.Language)
			continue
		}
		jobs = append(jobs, job{prompt: ComposeLegacy(f, cat, tmpl), single: f})
	}
	return jobs
}

func (e *Engine) selectedCategories(lang Language) []string {
	if len(e.config.Categories) > 0 {
		return e.config.Categories
	}
	return e.repo.Categories(string(lang))
}

// runJobs executes jobs concurrently. Each job writes into its own slot,
// so results merge deterministically in job order regardless of
// completion order.
func (e *Engine) runJobs(ctx context.Context, jobs []job) ([]jobResult, []ScanError) {
	results := make([]jobResult, len(jobs))

	p := pool.New().WithMaxGoroutines(e.config.Concurrency)
	for i, j := range jobs {
		i, j := i, j // capture loop variables
		p.Go(func() {
			results[i] = e.runJob(ctx, j)
		})
	}
	p.Wait()

	var errs []ScanError
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, *r.err)
		}
	}
	return results, errs
}

func (e *Engine) runJob(ctx context.Context, j job) jobResult {
	response, err := e.completer.Complete(ctx, provider.CompletionRequest{
		Model:  e.config.Model,
		System: SystemPrompt,
		Prompt: j.prompt.Text,
	})
	if err != nil {
		path := j.single.Path
		if j.multi {
			path = batchPaths(j.batch)
		}
		log.Printf("analysis call failed for %s/%s: %v", j.prompt.Language, j.prompt.Category, err)
		return jobResult{err: &ScanError{Stage: "gateway", Path: path, Err: err}}
	}

	if j.multi {
		return jobResult{records: AggregateBatch(response, j.batch, j.prompt.Category, j.prompt.Subcategories)}
	}
	return jobResult{records: AggregateSingle(response, j.single, j.prompt.Category, j.prompt.Subcategories)}
}

func (e *Engine) buildReport(root string, files []SourceFile, results []jobResult, errs []ScanError) *Report {
	result := NewScanResult()
	stats := ScanStats{
		FilesScanned:       len(files),
		APICalls:           len(results),
		RecordsPerCategory: make(map[string]int),
	}

	for _, r := range results {
		if r.err != nil {
			stats.FailedCalls++
			continue
		}
		for _, rec := range r.records {
			result.Append(rec.FilePath, rec)
			stats.Records++
			stats.RecordsPerCategory[rec.Category]++
		}
	}

	return &Report{
		RunID:  uuid.NewString(),
		Root:   root,
		Result: result,
		Stats:  stats,
		Errors: errs,
	}
}

func groupByLanguage(files []SourceFile) map[Language][]SourceFile {
	grouped := make(map[Language][]SourceFile)
	for _, f := range files {
		grouped[f.Language] = append(grouped[f.Language], f)
	}
	return grouped
}

// languageOrder returns the distinct languages in first-seen file order.
func languageOrder(files []SourceFile) []Language {
	var order []Language
	seen := make(map[Language]bool)
	for _, f := range files {
		if !seen[f.Language] {
			seen[f.Language] = true
			order = append(order, f.Language)
		}
	}
	return order
}

func batchPaths(batch FileBatch) string {
	paths := make([]string, len(batch.Files))
	for i, f := range batch.Files {
		paths[i] = f.Path
	}
	return strings.Join(paths, ", ")
}
