package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	tripHandler *handlers.TripHandler,
	itineraryHandler *handlers.ItineraryHandler,
	expenseHandler *handlers.ExpenseHandler,
	placeHandler *handlers.PlaceHandler,
	exportHandler *handlers.ExportHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/guest", authHandler.Guest)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	trips := api.Group("/trips", authMiddleware)
	trips.GET("", tripHandler.List)
	trips.GET("/upcoming", tripHandler.Upcoming)
	trips.POST("", tripHandler.Create)
	trips.GET("/:id", tripHandler.Get)
	trips.PUT("/:id", tripHandler.Update)
	trips.DELETE("/:id", tripHandler.Delete)

	trips.GET("/:id/itinerary", itineraryHandler.Get)
	trips.POST("/:id/itinerary/generate", itineraryHandler.Generate, aiRateLimiter)
	trips.PUT("/:id/itinerary", itineraryHandler.Save)
	trips.DELETE("/:id/itinerary", itineraryHandler.Clear)
	trips.GET("/:id/itinerary/days/:day", itineraryHandler.GetDay)
	trips.POST("/:id/itinerary/days/:day/activities", itineraryHandler.AddActivity)
	trips.PUT("/:id/itinerary/days/:day/activities/:index", itineraryHandler.EditActivity)
	trips.DELETE("/:id/itinerary/days/:day/activities/:index", itineraryHandler.DeleteActivity)
	trips.DELETE("/:id/itinerary/days/:day", itineraryHandler.DeleteDay)

	trips.GET("/:id/expenses", expenseHandler.List)
	trips.POST("/:id/expenses", expenseHandler.Create)
	trips.PUT("/:id/expenses/:expenseId", expenseHandler.Update)
	trips.DELETE("/:id/expenses/:expenseId", expenseHandler.Delete)
	trips.GET("/:id/expenses/summary", expenseHandler.Summary)

	trips.GET("/:id/export/json", exportHandler.ExportJSON)
	trips.GET("/:id/export/csv", exportHandler.ExportCSV)
	trips.GET("/:id/export/ics", exportHandler.ExportICS)

	placeGroup := api.Group("/places", authMiddleware)
	placeGroup.GET("/search", placeHandler.Search)
	placeGroup.GET("/categories", placeHandler.Categories)
	placeGroup.GET("/:placeId", placeHandler.Get)

	notificationGroup := api.Group("/notifications", authMiddleware)
	notificationGroup.GET("/stream", notificationHandler.Stream)
}
