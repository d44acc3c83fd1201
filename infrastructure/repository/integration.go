package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

const integrationsTable = "integrations i"

// IntegrationRepository lê as credenciais persistidas; tokens renovados não são gravados de volta
type IntegrationRepository interface {
	LoadCredentials(ctx context.Context, platform domain.Platform, accountID string) (*domain.Credentials, error)
}

type integrationRepository struct {
	conn postgres.Queryer
}

func NewIntegrationRepository(conn postgres.Queryer) IntegrationRepository {
	return &integrationRepository{
		conn: conn,
	}
}

func credentialsQuery(platform domain.Platform, accountID string) squirrel.SelectBuilder {
	return squirrel.
		Select("i.access_token, i.refresh_token, i.expires_at, i.scope").
		From(integrationsTable).
		Where(squirrel.Eq{
			"i.platform":   string(platform),
			"i.account_id": accountID,
			"i.status":     integrationStatus,
		}).
		OrderBy("i.updated_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *integrationRepository) LoadCredentials(ctx context.Context, platform domain.Platform, accountID string) (*domain.Credentials, error) {
	query, args, err := credentialsQuery(platform, accountID).ToSql()
	if err != nil {
		return nil, err
	}

	var (
		accessToken  sql.NullString
		refreshToken sql.NullString
		expiresAt    sql.NullTime
		scope        sql.NullString
	)
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&accessToken, &refreshToken, &expiresAt, &scope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao carregar credenciais de %s/%s", platform, accountID)
	}

	creds := &domain.Credentials{
		AccessToken:  accessToken.String,
		RefreshToken: refreshToken.String,
		Scope:        scope.String,
	}
	if expiresAt.Valid {
		creds.ExpiresAt = expiresAt.Time
	}
	return creds, nil
}
