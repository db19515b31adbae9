//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/Andii-12/Deltasoft-backend/internal"
	"github.com/Andii-12/Deltasoft-backend/internal/controllers"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/ratelimit"
	"github.com/Andii-12/Deltasoft-backend/internal/services"
	"github.com/Andii-12/Deltasoft-backend/internal/statistic"
	"github.com/Andii-12/Deltasoft-backend/internal/store"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/Andii-12/Deltasoft-backend/internal/tracking"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewVisitStore,
		tracking.NewSessionResolver,
		tracking.NewVisitRecorder,
		tracking.NewTracker,
		services.NewAnalyticsService,
		ratelimit.NewLimiter,

		statistic.NewZstdCompressor,
		statistic.NewSnapshotWriter,
		statistic.NewScheduler,

		controllers.NewAnalyticsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
