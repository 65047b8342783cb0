// Package budget estimates token counts and trims oversized model input.
// Because the service supports multiple LLM backends with different
// tokenizers, it uses a conservative character-based heuristic:
// 1 token ≈ 4 characters (prose). This deliberately under-estimates token
// counts to leave headroom for model-specific overhead.
package budget

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English prose; using 3
	// would be more aggressive but risks overflowing context windows.
	charsPerToken = 4

	// DefaultMaxContextTokens is the default input context budget in tokens.
	// Conservative enough to fit within 8k-context models (Llama 3 8B,
	// GPT-3.5) while leaving room for the output.
	DefaultMaxContextTokens = 6000
)

// Estimate returns a rough token count for s using the character heuristic.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// Truncate returns s cut down so its estimated token count fits within
// maxTokens. maxTokens <= 0 selects DefaultMaxContextTokens. Truncation
// happens at a rune boundary so multi-byte text is never split mid-character.
func Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxContextTokens
	}
	if Estimate(s) <= maxTokens {
		return s
	}

	limit := maxTokens * charsPerToken
	// Back up to the start of the rune straddling the cut point.
	for limit > 0 && !isRuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// isRuneStart reports whether b is the first byte of a UTF-8 sequence.
func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
