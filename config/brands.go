package config

import (
	"fmt"
	"os"

	"eventdesk/internal/domain"
)

// BrandRegistry maps each known brand to its external database
// coordinates, sourced from process-wide configuration. One endpoint
// URL and one privileged key per brand:
//
//	ITX_DATABASE_URL / ITX_SERVICE_KEY
//	SENTINEL_DATABASE_URL / SENTINEL_SERVICE_KEY
//	CDAIO_DATABASE_URL / CDAIO_SERVICE_KEY
//	MARKETVERSE_DATABASE_URL / MARKETVERSE_SERVICE_KEY
type BrandRegistry struct {
	targets map[domain.Brand]domain.BrandTarget
}

// LoadBrandRegistry reads the per-brand target coordinates from the
// environment. Missing variables are kept as blanks; Resolve reports
// them as incomplete configuration rather than unknown brands.
func LoadBrandRegistry() *BrandRegistry {
	targets := make(map[domain.Brand]domain.BrandTarget, len(domain.Brands))
	for _, b := range domain.Brands {
		prefix := envPrefix(b)
		targets[b] = domain.BrandTarget{
			URL:        os.Getenv(prefix + "_DATABASE_URL"),
			ServiceKey: os.Getenv(prefix + "_SERVICE_KEY"),
		}
	}
	return &BrandRegistry{targets: targets}
}

// NewBrandRegistry builds a registry from an explicit target map. Used by tests.
func NewBrandRegistry(targets map[domain.Brand]domain.BrandTarget) *BrandRegistry {
	return &BrandRegistry{targets: targets}
}

// envPrefix is exhaustive over the Brand enum; adding a brand without
// a prefix here is a compile-time-visible omission.
func envPrefix(b domain.Brand) string {
	switch b {
	case domain.BrandITx:
		return "ITX"
	case domain.BrandSentinel:
		return "SENTINEL"
	case domain.BrandCDAIO:
		return "CDAIO"
	case domain.BrandMarketverse:
		return "MARKETVERSE"
	}
	return ""
}

// Resolve matches brand case-insensitively against the known set and
// returns its target coordinates. Unknown brands fail with
// domain.ErrUnknownBrand; known brands with a blank URL or key fail
// with domain.ErrIncompleteConfig.
func (r *BrandRegistry) Resolve(brand string) (domain.BrandTarget, error) {
	b, err := domain.ParseBrand(brand)
	if err != nil {
		return domain.BrandTarget{}, fmt.Errorf("%w: %s", domain.ErrUnknownBrand, brand)
	}
	t := r.targets[b]
	if t.URL == "" || t.ServiceKey == "" {
		return domain.BrandTarget{}, fmt.Errorf("%w for %s", domain.ErrIncompleteConfig, b)
	}
	return t, nil
}
