package scanner

// Default batching constants. These model the fixed cost of prompt
// boilerplate and per-file markers around the actual file content.
const (
	// DefaultMaxTokens is the default per-prompt token limit.
	DefaultMaxTokens = 6000
	// DefaultReservedOverhead is subtracted from the budget once, globally,
	// to leave room for the prompt template and the model's response.
	DefaultReservedOverhead = 2000
	// DefaultMarkerOverhead is added per file for its marker lines.
	DefaultMarkerOverhead = 100
	// DefaultSubcategoryBatchSize bounds how many analysis areas share one
	// prompt, independent of the token budget.
	DefaultSubcategoryBatchSize = 3
)

// EstimateTokens approximates the token cost of text as len/4. A rough
// 4-characters-per-token heuristic for English-ish text; deterministic,
// never errors, 0 for empty input.
func EstimateTokens(text string) int {
	return len(text) / 4
}
