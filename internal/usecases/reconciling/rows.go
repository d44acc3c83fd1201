package reconciling

import (
	"errors"
	"strings"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/pkg/utils"
)

var errMalformedRow = errors.New("linha malformada")

// lookup percorre caminhos como "metrics.costMicros" em linhas aninhadas
func lookup(row domain.RawRow, path string) (any, bool) {
	var current any = map[string]any(row)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func text(row domain.RawRow, path string) string {
	v, ok := lookup(row, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// number trata campo ausente como zero; a API REST do Google omite métricas zeradas.
// Valor não numérico ou negativo também vale zero e é contado em InvalidValues, sem descartar a linha.
func (a *accumulator) number(row domain.RawRow, path string) float64 {
	v, ok := lookup(row, path)
	if !ok {
		return 0
	}
	return a.float(v)
}

func (a *accumulator) float(v any) float64 {
	if v == nil {
		return 0
	}
	f, ok := utils.ToFloat(v)
	if !ok || f < 0 {
		a.stats.InvalidValues++
		return 0
	}
	return f
}

func (a *accumulator) integer(row domain.RawRow, path string) int64 {
	v, ok := lookup(row, path)
	if !ok {
		return 0
	}
	i, ok := utils.ToInt(v)
	if !ok || i < 0 {
		a.stats.InvalidValues++
		return 0
	}
	return i
}
