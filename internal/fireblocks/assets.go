package fireblocks

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultAssets are the asset ids accepted when no catalog is configured
var DefaultAssets = []string{"SOL", "SOL_TEST"}

// AssetCatalog is the set of asset ids a client may submit transactions for
type AssetCatalog struct {
	ids map[string]struct{}
}

// NewAssetCatalog builds a catalog from asset ids; blank ids are ignored
func NewAssetCatalog(ids []string) *AssetCatalog {
	catalog := &AssetCatalog{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		catalog.ids[id] = struct{}{}
	}
	return catalog
}

func (a *AssetCatalog) Known(assetId string) bool {
	_, ok := a.ids[assetId]
	return ok
}

// Ids returns the catalog's asset ids in sorted order
func (a *AssetCatalog) Ids() []string {
	ids := make([]string, 0, len(a.ids))
	for id := range a.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *AssetCatalog) check(op, assetId string) error {
	if !a.Known(assetId) {
		return newError(ErrUnknownAsset, op, fmt.Sprintf("Unknown asset %s", assetId), nil)
	}
	return nil
}
