package meta

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

type MetaIntegrator struct {
	Client metaclient.Client
}

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{Client: client}
}

func (s *MetaIntegrator) Platform() domain.Platform {
	return domain.PlatformFacebookAds
}

// Queries monta uma única consulta por campanha para a conta de anúncios
func (s *MetaIntegrator) Queries(account domain.PlatformAccount, dr domain.DateRange) []domain.PlatformQuery {
	return []domain.PlatformQuery{{
		Platform:   domain.PlatformFacebookAds,
		ReportKind: domain.ReportKindMetaCampaign,
		AccountID:  account.AccountID,
		DateRange:  dr,
	}}
}

func (s *MetaIntegrator) Fetch(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	start := time.Now()

	block, err := s.Client.GetCampaignInsights(ctx, q)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": q.AccountID,
			"error":      err.Error(),
		}).Warn("insights: failed to get campaign insights from API")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id": q.AccountID,
		"rows":       len(block.Rows),
		"pages":      block.Pages,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("insights: successfully retrieved campaign insights")

	return block, nil
}
