package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"stockview/internal/domain/models"
	"stockview/pkg/util"
)

// DefaultSearchLimit caps search results at the first 11 matches in snapshot
// order, matching what the search dropdown renders.
const DefaultSearchLimit = 11

// Directory is the in-memory cache of known securities, loaded once from the
// snapshot file. Read-only after Load, so it is shared without locking.
type Directory struct {
	securities []models.Security
	bySymbol   map[string]int
}

// Load reads the JSON snapshot and builds the cache.
func Load(path string) (*Directory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(b)
}

// Parse builds a Directory from raw snapshot JSON.
func Parse(b []byte) (*Directory, error) {
	var securities []models.Security
	if err := json.Unmarshal(b, &securities); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	d := &Directory{
		securities: securities,
		bySymbol:   make(map[string]int, len(securities)),
	}
	for i, s := range securities {
		key := util.NormalizeSymbol(s.SecurityID)
		if _, ok := d.bySymbol[key]; !ok {
			d.bySymbol[key] = i
		}
	}
	return d, nil
}

// Len returns the number of securities in the cache.
func (d *Directory) Len() int {
	return len(d.securities)
}

// All returns the full snapshot in load order. Callers must not mutate it.
func (d *Directory) All() []models.Security {
	return d.securities
}

// Find resolves a symbol to its Security, case-insensitively.
func (d *Directory) Find(symbol string) (models.Security, bool) {
	i, ok := d.bySymbol[util.NormalizeSymbol(symbol)]
	if !ok {
		return models.Security{}, false
	}
	return d.securities[i], true
}

// Search returns securities whose issuer name, symbol or sector contains the
// query as a case-insensitive substring, in snapshot order, truncated to
// limit. An empty or whitespace-only query yields an empty result, never the
// full cache.
func (d *Directory) Search(query string, limit int) []models.Security {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return []models.Security{}
	}

	matches := make([]models.Security, 0, limit)
	for _, s := range d.securities {
		if util.ContainsFold(s.IssuerName, q) ||
			util.ContainsFold(s.SecurityID, q) ||
			util.ContainsFold(s.SectorName, q) {
			matches = append(matches, s)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}
