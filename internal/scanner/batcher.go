package scanner

// BatcherConfig controls token-budget file batching.
type BatcherConfig struct {
	MaxTokens        int // per-prompt token limit
	ReservedOverhead int // reserved once for boilerplate and response
	MarkerOverhead   int // added per file for marker lines
}

// DefaultBatcherConfig returns the default batching limits.
func DefaultBatcherConfig() BatcherConfig {
	return BatcherConfig{
		MaxTokens:        DefaultMaxTokens,
		ReservedOverhead: DefaultReservedOverhead,
		MarkerOverhead:   DefaultMarkerOverhead,
	}
}

// effectiveBudget is the token budget available for file content after
// reserving the fixed prompt overhead.
func (c BatcherConfig) effectiveBudget() int {
	return c.MaxTokens - c.ReservedOverhead
}

// BatchFiles greedily groups files into token-budget-bounded batches,
// preserving input order. All files must share one language. A file whose
// own cost exceeds the budget still forms a singleton batch: the non-empty
// guard below only splits when the current batch already holds something,
// so an oversized file is never dropped.
func BatchFiles(files []SourceFile, cfg BatcherConfig) []FileBatch {
	if len(files) == 0 {
		return nil
	}

	budget := cfg.effectiveBudget()

	var batches []FileBatch
	var current []SourceFile
	running := 0

	for _, f := range files {
		cost := EstimateTokens(f.Content) + cfg.MarkerOverhead
		if len(current) > 0 && running+cost > budget {
			batches = append(batches, FileBatch{Language: current[0].Language, Files: current})
			current = []SourceFile{f}
			running = cost
			continue
		}
		current = append(current, f)
		running += cost
	}

	if len(current) > 0 {
		batches = append(batches, FileBatch{Language: current[0].Language, Files: current})
	}
	return batches
}

// Chunk splits items into fixed-size groups of at most n, preserving order.
// The last chunk may be shorter. Empty input yields an empty result, never
// a list containing an empty chunk. n <= 0 is treated as 1.
func Chunk[T any](items []T, n int) [][]T {
	if n <= 0 {
		n = 1
	}
	var chunks [][]T
	for start := 0; start < len(items); start += n {
		end := start + n
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
