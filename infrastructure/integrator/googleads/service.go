package googleads

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/googleads/googleadsclient"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// reportKinds são as três visões que compõem o breakdown unificado
var reportKinds = []domain.ReportKind{
	domain.ReportKindCampaign,
	domain.ReportKindAdGroupAd,
	domain.ReportKindAssetGroup,
}

type GoogleAdsIntegrator struct {
	Client googleadsclient.Client
}

func New(client googleadsclient.Client) *GoogleAdsIntegrator {
	return &GoogleAdsIntegrator{Client: client}
}

func (s *GoogleAdsIntegrator) Platform() domain.Platform {
	return domain.PlatformGoogleAds
}

func (s *GoogleAdsIntegrator) Queries(account domain.PlatformAccount, dr domain.DateRange) []domain.PlatformQuery {
	var filters map[string]string
	if account.LoginCustomerID != "" {
		filters = map[string]string{domain.FilterLoginCustomerID: account.LoginCustomerID}
	}

	queries := make([]domain.PlatformQuery, 0, len(reportKinds))
	for _, kind := range reportKinds {
		queries = append(queries, domain.PlatformQuery{
			Platform:   domain.PlatformGoogleAds,
			ReportKind: kind,
			AccountID:  account.AccountID,
			DateRange:  dr,
			Filters:    filters,
		})
	}
	return queries
}

func (s *GoogleAdsIntegrator) Fetch(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	start := time.Now()

	block, err := s.Client.Search(ctx, q)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id":  q.AccountID,
			"report_kind": q.ReportKind,
			"error":       err.Error(),
		}).Warn("reports: failed to search customer report")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id":  q.AccountID,
		"report_kind": q.ReportKind,
		"rows":        len(block.Rows),
		"pages":       block.Pages,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	}).Debug("reports: successfully retrieved customer report")

	return block, nil
}
