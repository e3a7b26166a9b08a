// Package providers registers all concrete market data providers with a
// provider registry.
package providers

import (
	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/internal/providers/alphavantage"
	"github.com/seenimoa/stockdash/internal/providers/fmp"
)

// RegisterAllTo registers every available provider to reg. Providers need a
// key only when a client is built, so registration never depends on env.
func RegisterAllTo(reg *provider.Registry) error {
	if err := reg.Register(alphavantage.Info, alphavantage.New); err != nil {
		return err
	}
	if err := reg.Register(fmp.Info, fmp.New); err != nil {
		return err
	}
	return nil
}
