package cache

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/Jansenc08/CryptoApp-sub004/internal/models"
)

// KeyBuilder derives deterministic cache keys from logical request
// parameters. Two identical requests always map to the same key; the
// free-form search input is digested so arbitrary user text cannot produce
// pathological keys.
type KeyBuilder struct{}

// NewKeyBuilder creates a new KeyBuilder instance.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// Markets builds the key for one page of coin market data.
func (kb *KeyBuilder) Markets(q models.MarketQuery) string {
	return fmt.Sprintf("markets:%s:%s:page=%d:per=%d",
		normalize(q.Currency), normalize(q.Order), q.Page, q.PerPage)
}

// Chart builds the key for a coin price chart.
func (kb *KeyBuilder) Chart(q models.ChartQuery) string {
	return fmt.Sprintf("chart:%s:%dd:%s", normalize(q.CoinID), q.Days, normalize(q.Currency))
}

// Search builds the key for a free-form search query.
func (kb *KeyBuilder) Search(query string) string {
	digest := md5.Sum([]byte(strings.TrimSpace(strings.ToLower(query))))
	return fmt.Sprintf("search:%x", digest)
}

// Logo builds the key for a coin logo image.
func (kb *KeyBuilder) Logo(coinID string) string {
	return "logo:" + normalize(coinID)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
