package integrations

import (
	"go.uber.org/zap"

	untappdweb "brygghaus.dev/BeerLedger/pkg/integrations/untappd-web"
	"brygghaus.dev/BeerLedger/pkg/model"
)

// Integration is an external beer catalog the search endpoint can query for
// candidates to add to the ledger.
type Integration interface {
	FindBeer(name string) ([]model.Beer, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == untappdweb.IntegrationName {
		return untappdweb.NewUntappedWebIntegration(logger)
	}

	return nil
}
