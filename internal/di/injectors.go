//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"processingd/internal"
	"processingd/internal/controllers"
	"processingd/internal/localstate"
	"processingd/internal/providers"
	"processingd/internal/services"
	"processingd/internal/socket"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"processingd/internal/tracker"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewHTTPClientProvider,

		stores.NewDonationsStore,
		stores.NewDonationGroupsStore,
		stores.NewProcessingStore,
		stores.NewSearchKeywordsStore,
		stores.NewUserPreferencesStore,
		stores.NewBidsStore,

		tracker.NewClient,
		socket.NewProcessingSocket,

		services.NewReconciler,
		services.NewBidService,
		services.NewScheduleService,
		services.NewMutationService,
		services.NewProcessingService,

		localstate.NewZstdCompressor,
		localstate.NewFileManager,
		localstate.NewScheduler,

		controllers.NewProcessingController,
		controllers.NewGroupsController,
		controllers.NewSettingsController,
		controllers.NewBidsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
