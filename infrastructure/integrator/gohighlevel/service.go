package gohighlevel

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel/ghlclient"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

type GoHighLevelIntegrator struct {
	Client ghlclient.Client
}

func New(client ghlclient.Client) *GoHighLevelIntegrator {
	return &GoHighLevelIntegrator{Client: client}
}

func (s *GoHighLevelIntegrator) Platform() domain.Platform {
	return domain.PlatformGoHighLevel
}

// Queries devolve as buscas de contatos e de oportunidades da location
func (s *GoHighLevelIntegrator) Queries(account domain.PlatformAccount, dr domain.DateRange) []domain.PlatformQuery {
	kinds := []domain.ReportKind{domain.ReportKindCRMContacts, domain.ReportKindCRMOpportunities}

	queries := make([]domain.PlatformQuery, 0, len(kinds))
	for _, kind := range kinds {
		queries = append(queries, domain.PlatformQuery{
			Platform:   domain.PlatformGoHighLevel,
			ReportKind: kind,
			AccountID:  account.AccountID,
			DateRange:  dr,
		})
	}
	return queries
}

func (s *GoHighLevelIntegrator) Fetch(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	start := time.Now()

	var (
		block *domain.RawReportBlock
		err   error
	)
	switch q.ReportKind {
	case domain.ReportKindCRMContacts:
		block, err = s.Client.SearchContacts(ctx, q)
	case domain.ReportKindCRMOpportunities:
		block, err = s.Client.SearchOpportunities(ctx, q)
	default:
		return nil, errors.Wrapf(domain.ErrNoReportSource, "gohighlevel: %s", q.ReportKind)
	}

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id":  q.AccountID,
			"report_kind": q.ReportKind,
			"error":       err.Error(),
		}).Warn("crm: failed to search location records")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id":  q.AccountID,
		"report_kind": q.ReportKind,
		"rows":        len(block.Rows),
		"pages":       block.Pages,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	}).Debug("crm: successfully retrieved location records")

	return block, nil
}
