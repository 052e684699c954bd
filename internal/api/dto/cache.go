package dto

// ClearCacheRequest selects the period whose derived values get invalidated
type ClearCacheRequest struct {
	Period string `json:"period"`
}

// ClearCacheResponse lists the keys that were cleared
type ClearCacheResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	ClearedKeys []string `json:"cleared_keys"`
}

// WarmCacheResult reports one pre-warm step
type WarmCacheResult struct {
	Type   string `json:"type"`
	Period string `json:"period,omitempty"`
	TimeMs int64  `json:"time_ms"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// WarmCacheResponse is the full pre-warm report
type WarmCacheResponse struct {
	Status       string            `json:"status"`
	Results      []WarmCacheResult `json:"results"`
	TotalTimeMs  int64             `json:"total_time_ms"`
	SuccessCount int               `json:"success_count"`
	FailCount    int               `json:"fail_count"`
}
