package domain

import (
	"sort"
	"strings"
)

// Filtros conhecidos de PlatformQuery
const (
	FilterLoginCustomerID = "login_customer_id"
)

// PlatformQuery identifica uma requisição de relatório a um provedor.
// É tratada como imutável: Filters não deve ser alterado depois de criada.
type PlatformQuery struct {
	Platform   Platform          `json:"platform"`
	ReportKind ReportKind        `json:"reportKind"`
	AccountID  string            `json:"accountId"`
	DateRange  DateRange         `json:"dateRange"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// Key devolve uma representação determinística da consulta
func (q PlatformQuery) Key() string {
	var b strings.Builder
	b.WriteString(string(q.Platform))
	b.WriteByte('|')
	b.WriteString(string(q.ReportKind))
	b.WriteByte('|')
	b.WriteString(q.AccountID)
	b.WriteByte('|')
	b.WriteString(q.DateRange.String())

	if len(q.Filters) > 0 {
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte('|')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(q.Filters[k])
		}
	}

	return b.String()
}

func (q PlatformQuery) String() string {
	return string(q.Platform) + "/" + string(q.ReportKind) + "/" + q.AccountID
}

func (q PlatformQuery) Filter(name string) string {
	if q.Filters == nil {
		return ""
	}
	return q.Filters[name]
}

// RawRow é uma linha de relatório no formato nativo do provedor
type RawRow map[string]any

// RawReportBlock acumula todas as páginas de uma consulta
type RawReportBlock struct {
	Query PlatformQuery
	Rows  []RawRow
	Pages int
}
