package upstream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshSkew é a antecedência mínima de validade exigida de um token
const DefaultRefreshSkew = 5 * time.Minute

const defaultRefreshTimeout = 30 * time.Second

// CredentialLoader lê o registro persistido da integração
type CredentialLoader interface {
	LoadCredentials(ctx context.Context, platform domain.Platform, accountID string) (*domain.Credentials, error)
}

// Refresher renova um token junto ao provedor
type Refresher interface {
	Refresh(ctx context.Context, record domain.TokenRecord) (*domain.Credentials, error)
}

// ReauthNotifier é avisado quando uma conta precisa ser reconectada por uma pessoa
type ReauthNotifier interface {
	OnReauthRequired(platform domain.Platform, accountID string, reason string)
}

type tokenEntry struct {
	record       *domain.TokenRecord
	refreshing   bool
	reauth       bool
	reauthReason string
	generation   uint64
}

// TokenManager obtém, guarda e renova tokens por conta.
// Apenas uma renovação por conta fica em voo; chamadores concorrentes compartilham o resultado.
type TokenManager struct {
	mu             sync.Mutex
	entries        map[string]*tokenEntry
	group          singleflight.Group
	loader         CredentialLoader
	refreshers     map[domain.Platform]Refresher
	notifier       ReauthNotifier
	skew           time.Duration
	refreshTimeout time.Duration
	now            func() time.Time
}

type TokenManagerOption func(*TokenManager)

func WithRefreshSkew(d time.Duration) TokenManagerOption {
	return func(m *TokenManager) {
		if d > 0 {
			m.skew = d
		}
	}
}

func WithTokenClock(now func() time.Time) TokenManagerOption {
	return func(m *TokenManager) { m.now = now }
}

func WithReauthNotifier(n ReauthNotifier) TokenManagerOption {
	return func(m *TokenManager) { m.notifier = n }
}

func NewTokenManager(loader CredentialLoader, refreshers map[domain.Platform]Refresher, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		entries:        make(map[string]*tokenEntry),
		loader:         loader,
		refreshers:     refreshers,
		skew:           DefaultRefreshSkew,
		refreshTimeout: defaultRefreshTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *TokenManager) entryLocked(key string) *tokenEntry {
	e, ok := m.entries[key]
	if !ok {
		e = &tokenEntry{}
		m.entries[key] = e
	}
	return e
}

func (m *TokenManager) stateLocked(e *tokenEntry, now time.Time) domain.TokenState {
	switch {
	case e.reauth:
		return domain.TokenStateReauthRequired
	case e.refreshing:
		return domain.TokenStateRefreshing
	case e.record == nil:
		return domain.TokenStateAbsent
	case e.record.ExpiresWithin(now, m.skew):
		return domain.TokenStateExpiring
	}
	return domain.TokenStateValid
}

// State informa o estado atual do token da conta
func (m *TokenManager) State(platform domain.Platform, accountID string) domain.TokenState {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[stateKey(platform, accountID)]
	if !ok {
		return domain.TokenStateAbsent
	}
	return m.stateLocked(e, m.now())
}

// GetValidToken devolve um token com pelo menos skew de validade.
// Contas em reauth_required falham na hora, sem nova tentativa de renovação.
func (m *TokenManager) GetValidToken(ctx context.Context, platform domain.Platform, accountID string) (string, error) {
	key := stateKey(platform, accountID)

	m.mu.Lock()
	e := m.entryLocked(key)
	switch m.stateLocked(e, m.now()) {
	case domain.TokenStateReauthRequired:
		reason := e.reauthReason
		m.mu.Unlock()
		return "", reauthError(reason)
	case domain.TokenStateValid:
		token := e.record.AccessToken
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	// a renovação compartilhada não herda o cancelamento de quem a iniciou
	ch := m.group.DoChan(key, func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.refreshTimeout)
		defer cancel()
		return m.obtain(refreshCtx, platform, accountID)
	})

	select {
	case <-ctx.Done():
		return "", ClassifyError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// obtain carrega as credenciais e renova quando necessário
func (m *TokenManager) obtain(ctx context.Context, platform domain.Platform, accountID string) (string, error) {
	key := stateKey(platform, accountID)
	logger := log.L.WithFields(log.Fields{"platform": platform, "account_id": accountID})

	m.mu.Lock()
	e := m.entryLocked(key)
	now := m.now()
	// Verificar novamente, outra renovação pode ter terminado antes de entrarmos
	switch m.stateLocked(e, now) {
	case domain.TokenStateReauthRequired:
		reason := e.reauthReason
		m.mu.Unlock()
		return "", reauthError(reason)
	case domain.TokenStateValid:
		token := e.record.AccessToken
		m.mu.Unlock()
		return token, nil
	}
	generation := e.generation
	var current *domain.TokenRecord
	if e.record != nil {
		copied := *e.record
		current = &copied
	}
	e.refreshing = true
	m.mu.Unlock()

	token, err := m.loadAndRefresh(ctx, platform, accountID, current)

	m.mu.Lock()
	e = m.entryLocked(key)
	stale := e.generation != generation
	if !stale {
		e.refreshing = false
	}

	if err != nil {
		ue := ClassifyError(err)
		if ue.RequiresReauth() && !stale {
			e.reauth = true
			e.reauthReason = ue.Message
			m.mu.Unlock()

			logger.WithError(ue).Error("Conta exige nova autorização")
			if m.notifier != nil {
				m.notifier.OnReauthRequired(platform, accountID, ue.Message)
			}
			return "", reauthError(ue.Message)
		}
		m.mu.Unlock()

		logger.WithError(ue).Warn("Falha ao renovar token")
		return "", ue
	}

	if !stale {
		e.record = token
	}
	m.mu.Unlock()

	return token.AccessToken, nil
}

func (m *TokenManager) loadAndRefresh(ctx context.Context, platform domain.Platform, accountID string, current *domain.TokenRecord) (*domain.TokenRecord, error) {
	if current == nil {
		creds, err := m.loader.LoadCredentials(ctx, platform, accountID)
		if err != nil {
			if errors.Is(err, domain.ErrCredentialsNotFound) {
				return nil, domain.NewUpstreamError(domain.ErrorKindAuthentication, 0, "integração sem credenciais", domain.ErrReauthRequired)
			}
			return nil, domain.NewUpstreamError(domain.ErrorKindUnknown, 0, "erro ao carregar credenciais: "+err.Error(), err)
		}
		current = &domain.TokenRecord{
			Platform:     platform,
			AccountID:    accountID,
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
			ExpiresAt:    creds.ExpiresAt,
			Scope:        creds.Scope,
		}
		if current.AccessToken != "" && !current.ExpiresWithin(m.now(), m.skew) {
			return current, nil
		}
	}

	refresher, ok := m.refreshers[platform]
	if !ok {
		if current.AccessToken != "" && current.ExpiresAt.After(m.now()) {
			return current, nil
		}
		return nil, domain.NewUpstreamError(domain.ErrorKindAuthentication, 0, "token expirado e plataforma sem renovação", domain.ErrReauthRequired)
	}

	log.L.WithFields(log.Fields{"platform": platform, "account_id": accountID}).Debug("Renovando token de acesso")

	creds, err := refresher.Refresh(ctx, *current)
	if err != nil {
		return nil, err
	}

	refreshed := &domain.TokenRecord{
		Platform:     platform,
		AccountID:    accountID,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		ExpiresAt:    creds.ExpiresAt,
		Scope:        creds.Scope,
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = current.RefreshToken
	}
	if refreshed.Scope == "" {
		refreshed.Scope = current.Scope
	}
	return refreshed, nil
}

// Invalidate volta a conta para absent; usado quando as credenciais mudam
func (m *TokenManager) Invalidate(platform domain.Platform, accountID string) {
	key := stateKey(platform, accountID)

	m.mu.Lock()
	e := m.entryLocked(key)
	e.record = nil
	e.refreshing = false
	e.reauth = false
	e.reauthReason = ""
	e.generation++
	m.mu.Unlock()

	m.group.Forget(key)
}

// Expire força a renovação na próxima chamada, após um 401 de uma chamada de dados
func (m *TokenManager) Expire(platform domain.Platform, accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[stateKey(platform, accountID)]
	if !ok || e.record == nil {
		return
	}
	record := *e.record
	record.ExpiresAt = m.now()
	e.record = &record
}

// RequireReauth marca a conta como reauth_required e avisa o notificador
func (m *TokenManager) RequireReauth(platform domain.Platform, accountID string, reason string) {
	m.mu.Lock()
	e := m.entryLocked(stateKey(platform, accountID))
	already := e.reauth
	e.reauth = true
	e.reauthReason = reason
	m.mu.Unlock()

	if already {
		return
	}

	log.L.WithFields(log.Fields{"platform": platform, "account_id": accountID}).
		Errorf("Conta exige nova autorização: %s", reason)
	if m.notifier != nil {
		m.notifier.OnReauthRequired(platform, accountID, reason)
	}
}

func reauthError(reason string) error {
	msg := "conta exige nova autorização"
	if reason != "" {
		msg += ": " + reason
	}
	return domain.NewUpstreamError(domain.ErrorKindAuthentication, 0, msg, domain.ErrReauthRequired)
}
