package reconciling

import (
	"context"
	"errors"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"github.com/vfg2006/agency-metrics-api/pkg/utils"
)

type accumulator struct {
	breakdown domain.UnifiedBreakdown
	totals    map[domain.Platform]*domain.PlatformTotals
	stats     domain.ReconcileStats
}

func (a *accumulator) total(p domain.Platform) *domain.PlatformTotals {
	t, ok := a.totals[p]
	if !ok {
		t = &domain.PlatformTotals{}
		a.totals[p] = t
	}
	return t
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Reconcile nunca falha: linhas ruins são descartadas e contadas em Stats
func (s *Service) Reconcile(ctx context.Context, platforms []domain.Platform, blocks []*domain.RawReportBlock) domain.Reconciliation {
	logger := log.ForContext(ctx)

	acc := &accumulator{totals: make(map[domain.Platform]*domain.PlatformTotals, len(platforms))}
	for _, p := range platforms {
		acc.total(p)
	}

	for _, block := range blocks {
		if block == nil {
			continue
		}

		parse, ok := parsers[block.Query.ReportKind]
		if !ok {
			logger.WithFields(log.Fields{
				"platform":    block.Query.Platform,
				"report_kind": block.Query.ReportKind,
			}).Warn("Tipo de relatório sem parser, bloco ignorado")
			acc.stats.UnmappedRows += len(block.Rows)
			continue
		}

		for _, row := range block.Rows {
			if row == nil {
				acc.stats.MalformedRows++
				continue
			}
			switch err := parse(acc, row); {
			case errors.Is(err, errMalformedRow):
				acc.stats.MalformedRows++
			case errors.Is(err, errUnmappedRow):
				acc.stats.UnmappedRows++
			}
		}
	}

	finalizeBreakdown(&acc.breakdown)

	totals := make(map[domain.Platform]domain.PlatformTotals, len(acc.totals))
	for p, t := range acc.totals {
		totals[p] = finalizeTotals(p, *t)
	}

	if acc.stats.MalformedRows > 0 || acc.stats.InvalidValues > 0 {
		logger.WithFields(log.Fields{
			"malformed_rows": acc.stats.MalformedRows,
			"unmapped_rows":  acc.stats.UnmappedRows,
			"invalid_values": acc.stats.InvalidValues,
		}).Warn("Linhas malformadas ou valores inválidos na reconciliação")
	}

	return domain.Reconciliation{
		Breakdown: acc.breakdown,
		Totals:    totals,
		Stats:     acc.stats,
	}
}

// finalizeBreakdown calcula as taxas; folhas sem impressões ficam com taxa zero
func finalizeBreakdown(b *domain.UnifiedBreakdown) {
	for _, leaf := range b.Leaves() {
		leaf.Conversions = utils.RoundWithTwoDecimalPlace(leaf.Conversions)
		leaf.ConversionRate = utils.Percentage(leaf.Conversions, float64(leaf.Impressions))
	}
}

// finalizeTotals usa oportunidades ganhas sobre oportunidades como taxa do CRM
func finalizeTotals(p domain.Platform, t domain.PlatformTotals) domain.PlatformTotals {
	t.Spend = utils.RoundWithTwoDecimalPlace(t.Spend)
	t.Conversions = utils.RoundWithTwoDecimalPlace(t.Conversions)
	t.PipelineValue = utils.RoundWithTwoDecimalPlace(t.PipelineValue)

	if p == domain.PlatformGoHighLevel {
		t.ConversionRate = utils.Percentage(float64(t.WonOpportunities), float64(t.Opportunities))
	} else {
		t.ConversionRate = utils.Percentage(t.Conversions, float64(t.Impressions))
	}
	return t
}
