package domain

// PlatformAccount é a conta conectada de um cliente em uma plataforma
type PlatformAccount struct {
	Platform        Platform `json:"platform"`
	AccountID       string   `json:"accountId"`
	LoginCustomerID string   `json:"loginCustomerId,omitempty"`
}

// ReportingClient é o cliente da agência com suas integrações ativas
type ReportingClient struct {
	ID       string                       `json:"id"`
	Name     string                       `json:"name"`
	Accounts map[Platform]PlatformAccount `json:"accounts"`
}

func (c *ReportingClient) Account(p Platform) (PlatformAccount, bool) {
	if c == nil || c.Accounts == nil {
		return PlatformAccount{}, false
	}
	acc, ok := c.Accounts[p]
	if !ok || acc.AccountID == "" {
		return PlatformAccount{}, false
	}
	return acc, true
}

// ConnectedPlatforms retorna as plataformas com conta conectada, em ordem estável
func (c *ReportingClient) ConnectedPlatforms() []Platform {
	result := make([]Platform, 0, len(AllPlatforms))
	for _, p := range AllPlatforms {
		if _, ok := c.Account(p); ok {
			result = append(result, p)
		}
	}
	return result
}
