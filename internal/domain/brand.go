package domain

import "strings"

// Brand is the closed set of organizational labels. A brand determines
// which external database an event syncs to.
type Brand string

const (
	BrandITx         Brand = "ITx"
	BrandSentinel    Brand = "Sentinel"
	BrandCDAIO       Brand = "CDAIO"
	BrandMarketverse Brand = "Marketverse"
)

// Brands lists every known brand.
var Brands = []Brand{BrandITx, BrandSentinel, BrandCDAIO, BrandMarketverse}

// ParseBrand matches s against the known brands, case-insensitively.
// Surrounding whitespace is ignored. Returns ErrUnknownBrand for
// anything outside the closed set.
func ParseBrand(s string) (Brand, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ITX":
		return BrandITx, nil
	case "SENTINEL":
		return BrandSentinel, nil
	case "CDAIO":
		return BrandCDAIO, nil
	case "MARKETVERSE":
		return BrandMarketverse, nil
	default:
		return "", ErrUnknownBrand
	}
}

// BrandTarget holds the connection coordinates of one brand's external
// database: the endpoint URL and the privileged service key.
type BrandTarget struct {
	URL        string
	ServiceKey string
}

// BrandRegistry resolves a brand name to its target database
// coordinates. Pure lookup, no side effects.
type BrandRegistry interface {
	Resolve(brand string) (BrandTarget, error)
}

// EventTypes is the known event type vocabulary. Like brand, it is a
// dropdown vocabulary in the editing UI and is not enforced at the
// data layer.
var EventTypes = []string{"Dinner", "Forum", "Learn & Go", "VEB", "Virtual Roundtable"}
