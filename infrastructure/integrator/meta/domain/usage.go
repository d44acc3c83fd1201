package metadomain

// AdAccountUsage é o conteúdo do cabeçalho X-Ad-Account-Usage
type AdAccountUsage struct {
	AccIDUtilPct      float64 `json:"acc_id_util_pct"`
	ResetTimeDuration int     `json:"reset_time_duration"`
}

// BusinessUseCaseUsage é um item do cabeçalho X-Business-Use-Case-Usage
type BusinessUseCaseUsage struct {
	Type                        string  `json:"type"`
	CallCount                   float64 `json:"call_count"`
	TotalCPUTime                float64 `json:"total_cputime"`
	TotalTime                   float64 `json:"total_time"`
	EstimatedTimeToRegainAccess int     `json:"estimated_time_to_regain_access"`
}

// MaxPct devolve o maior percentual entre as métricas de consumo
func (u BusinessUseCaseUsage) MaxPct() float64 {
	m := u.CallCount
	if u.TotalCPUTime > m {
		m = u.TotalCPUTime
	}
	if u.TotalTime > m {
		m = u.TotalTime
	}
	return m
}
