package reconciling

import (
	"context"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// Reconciler funde blocos brutos de vários tipos de relatório em um breakdown único.
// Blocos ausentes (consultas que falharam) apenas deixam de contribuir.
type Reconciler interface {
	Reconcile(ctx context.Context, platforms []domain.Platform, blocks []*domain.RawReportBlock) domain.Reconciliation
}
