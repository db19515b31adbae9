package internal

import (
	"net/http"

	"github.com/Andii-12/Deltasoft-backend/internal/controllers"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
)

func InitRoutes(analyticsController *controllers.AnalyticsController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/analytics/visitors", http.HandlerFunc(analyticsController.GetVisitorStats))
	routers.Get("/api/analytics/visitors/realtime", http.HandlerFunc(analyticsController.GetRealTimeStats))
	routers.Get("/api/analytics/visitors/range", http.HandlerFunc(analyticsController.GetRangeStats))
	routers.Get("/api/analytics/activity", http.HandlerFunc(analyticsController.GetActivity))
	return routers
}
