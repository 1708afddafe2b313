package biz

import "github.com/google/wire"

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewEngineConfig,
	NewScopeResolver,
	NewScopeUseCase,
	NewDefaultQuotaRegistry,
	NewAlertUseCase,
	NewQuotaUseCase,
	NewPriceEstimateUseCase,
	NewSweeperUseCase,
)
