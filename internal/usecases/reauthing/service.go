package reauthing

import (
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// Service guarda em memória as contas que precisam ser reconectadas
type Service struct {
	mu      sync.Mutex
	pending map[string]domain.ReauthRequest
	now     func() time.Time
}

func NewService() *Service {
	return &Service{
		pending: make(map[string]domain.ReauthRequest),
		now:     time.Now,
	}
}

// WithClock troca o relógio usado para marcar Since
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func pendingKey(platform domain.Platform, accountID string) string {
	return string(platform) + ":" + accountID
}

// OnReauthRequired mantém o Since da primeira notificação e atualiza o motivo
func (s *Service) OnReauthRequired(platform domain.Platform, accountID string, reason string) {
	s.mu.Lock()
	key := pendingKey(platform, accountID)
	req, exists := s.pending[key]
	if !exists {
		req = domain.ReauthRequest{Platform: platform, AccountID: accountID, Since: s.now()}
	}
	req.Reason = reason
	s.pending[key] = req
	s.mu.Unlock()

	if exists {
		return
	}

	log.L.WithFields(log.Fields{
		"platform":   platform,
		"account_id": accountID,
	}).Errorf("Integração desconectada, aguardando nova autorização: %s", reason)
}

func (s *Service) List() []domain.ReauthRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]domain.ReauthRequest, 0, len(s.pending))
	for _, req := range s.pending {
		list = append(list, req)
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].Since.Equal(list[j].Since) {
			return list[i].Since.Before(list[j].Since)
		}
		return pendingKey(list[i].Platform, list[i].AccountID) < pendingKey(list[j].Platform, list[j].AccountID)
	})

	return list
}

// Clear remove a conta da lista; retorna false se ela não estava pendente
func (s *Service) Clear(platform domain.Platform, accountID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pendingKey(platform, accountID)
	if _, ok := s.pending[key]; !ok {
		return false
	}
	delete(s.pending, key)
	return true
}
