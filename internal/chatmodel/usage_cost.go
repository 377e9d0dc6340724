package chatmodel

// TokenUsage is a provider-reported token count for one completion.
type TokenUsage struct {
	PromptTokens     uint64
	CompletionTokens uint64
	TotalTokens      uint64
	CacheReadTokens  uint64
	CacheWriteTokens uint64
}

// TokenCost holds USD rates per one million tokens, by bucket.
type TokenCost struct {
	Input      float64
	Output     float64
	CacheRead  float64
	CacheWrite float64
}

// CostBreakdown is the per-bucket USD amount derived from a TokenUsage and a
// TokenCost, tagged with its currency.
type CostBreakdown struct {
	Input      float64
	Output     float64
	CacheRead  float64
	CacheWrite float64
	Total      float64
	Currency   string
}

const tokensPerMillion = 1_000_000.0

// EstimateUSD computes a CostBreakdown for usage at these rates:
// Σ (tokens_k / 1e6) × rate_k, for each of the four buckets.
func (c TokenCost) EstimateUSD(usage TokenUsage) CostBreakdown {
	b := CostBreakdown{
		Input:      float64(usage.PromptTokens) / tokensPerMillion * c.Input,
		Output:     float64(usage.CompletionTokens) / tokensPerMillion * c.Output,
		CacheRead:  float64(usage.CacheReadTokens) / tokensPerMillion * c.CacheRead,
		CacheWrite: float64(usage.CacheWriteTokens) / tokensPerMillion * c.CacheWrite,
		Currency:   "USD",
	}
	b.Total = b.Input + b.Output + b.CacheRead + b.CacheWrite
	return b
}
