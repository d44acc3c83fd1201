package aggregating

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// CacheKey espera plataformas já normalizadas (ordenadas e sem repetição)
func CacheKey(clientID string, platforms []domain.Platform, dr domain.DateRange) string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	sum := sha256.Sum256([]byte(clientID + "|" + strings.Join(names, ",") + "|" + dr.String()))
	return "metrics:" + hex.EncodeToString(sum[:])
}
