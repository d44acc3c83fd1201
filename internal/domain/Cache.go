package domain

import "time"

// AggregationCacheEntry nunca é alterada; uma nova entrada substitui a anterior
type AggregationCacheEntry struct {
	Key           string         `json:"key"`
	ClientID      string         `json:"clientId"`
	Result        *UnifiedResult `json:"result"`
	PartialErrors []ErrorRecord  `json:"partialErrors"`
	FetchedAt     time.Time      `json:"fetchedAt"`
	TTL           time.Duration  `json:"ttl"`
}

func (e *AggregationCacheEntry) ExpiresAt() time.Time {
	return e.FetchedAt.Add(e.TTL)
}

// IsFresh é um corte rígido: a entrada expira assim que now passa de fetchedAt + ttl
func (e *AggregationCacheEntry) IsFresh(now time.Time) bool {
	if e == nil || e.Result == nil {
		return false
	}
	return !now.After(e.ExpiresAt())
}
