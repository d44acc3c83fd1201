package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

const (
	clientsTable      = "clients c"
	integrationStatus = "connected"
)

type ClientRepository interface {
	GetClientAccounts(ctx context.Context, clientID string) (*domain.ReportingClient, error)
	ListActiveClients(ctx context.Context) ([]domain.ReportingClient, error)
}

type clientRepository struct {
	conn postgres.Queryer
}

func NewClientRepository(conn postgres.Queryer) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

// clientAccountRow é uma linha do join clientes x integrações; as colunas da integração podem ser nulas
type clientAccountRow struct {
	ClientID        string
	ClientName      string
	Platform        sql.NullString
	AccountID       sql.NullString
	LoginCustomerID sql.NullString
}

func clientAccountsQuery() squirrel.SelectBuilder {
	return squirrel.
		Select("c.id, c.name, i.platform, i.account_id, i.login_customer_id").
		From(clientsTable).
		LeftJoin("integrations i ON i.client_id = c.id AND i.status = ?", integrationStatus).
		OrderBy("c.name ASC", "i.platform ASC").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *clientRepository) GetClientAccounts(ctx context.Context, clientID string) (*domain.ReportingClient, error) {
	rows, err := r.query(ctx, clientAccountsQuery().Where(squirrel.Eq{"c.id": clientID}))
	if err != nil {
		return nil, err
	}

	clients := groupClients(rows)
	if len(clients) == 0 {
		return nil, domain.ErrClientNotFound
	}
	return &clients[0], nil
}

func (r *clientRepository) ListActiveClients(ctx context.Context) ([]domain.ReportingClient, error) {
	rows, err := r.query(ctx, clientAccountsQuery().Where(squirrel.Eq{"c.active": true}))
	if err != nil {
		return nil, err
	}
	return groupClients(rows), nil
}

func (r *clientRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]clientAccountRow, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar contas dos clientes")
	}
	defer rows.Close()

	result := make([]clientAccountRow, 0)
	for rows.Next() {
		var row clientAccountRow
		if err := rows.Scan(
			&row.ClientID,
			&row.ClientName,
			&row.Platform,
			&row.AccountID,
			&row.LoginCustomerID,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// groupClients preserva a ordem de chegada; plataformas desconhecidas são ignoradas
func groupClients(rows []clientAccountRow) []domain.ReportingClient {
	clients := make([]domain.ReportingClient, 0)
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.ClientID]
		if !ok {
			clients = append(clients, domain.ReportingClient{
				ID:       row.ClientID,
				Name:     row.ClientName,
				Accounts: make(map[domain.Platform]domain.PlatformAccount),
			})
			i = len(clients) - 1
			index[row.ClientID] = i
		}

		platform := domain.Platform(row.Platform.String)
		if !row.Platform.Valid || !row.AccountID.Valid || !platform.IsValid() {
			continue
		}
		// a primeira conta por plataforma prevalece
		if _, exists := clients[i].Accounts[platform]; exists {
			continue
		}
		clients[i].Accounts[platform] = domain.PlatformAccount{
			Platform:        platform,
			AccountID:       row.AccountID.String,
			LoginCustomerID: row.LoginCustomerID.String,
		}
	}

	return clients
}
