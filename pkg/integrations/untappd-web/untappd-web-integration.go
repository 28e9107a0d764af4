// Package untappdweb scrapes the public untappd site for beer candidates.
package untappdweb

import "go.uber.org/zap"

// IntegrationName is the key this integration is registered under.
const IntegrationName = "untappd_web"

type UntappedWebIntegration struct {
	logger *zap.Logger
}

func NewUntappedWebIntegration(logger *zap.Logger) *UntappedWebIntegration {
	return &UntappedWebIntegration{logger: logger}
}
