package routes

import (
	"net/http"

	"github.com/Biniljacobpro/nexcharge-sub001/config"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/api/handlers"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/api/middleware"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/booking"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/mailer"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/notify"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/payment"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires handlers to routes. All dependencies are injected; the
// router owns no state of its own.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	gateway *payment.Client,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	bookingSvc := booking.NewService(db)
	notifier := notify.New(db, wsHub)
	mail := mailer.New(cfg.SMTP)

	authHandler := &handlers.AuthHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	vehicleHandler := &handlers.VehicleHandler{DB: db}
	corporateHandler := &handlers.CorporateHandler{DB: db, Mailer: mail}
	franchiseHandler := &handlers.FranchiseHandler{DB: db, Mailer: mail}
	stationHandler := &handlers.StationHandler{DB: db}
	bookingHandler := &handlers.BookingHandler{DB: db, Svc: bookingSvc, Gateway: gateway, Notifier: notifier}
	paymentHandler := &handlers.PaymentHandler{DB: db, Svc: bookingSvc, Gateway: gateway, Notifier: notifier}
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	notificationHandler := &handlers.NotificationHandler{DB: db}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Station discovery is public: anyone can browse active stations.
		public := apiV1.Group("/")
		{
			public.GET("/stations", stationHandler.GetAllStations)
			public.GET("/stations/:id", stationHandler.GetStationByID)
		}

		// The payment callback authenticates itself with the gateway
		// signature, not a user token.
		apiV1.POST("/payments/verify", paymentHandler.VerifyPayment)

		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize(models.RoleAdmin))
		{
			admin.POST("/corporates", corporateHandler.CreateCorporate)
			admin.GET("/corporates", corporateHandler.GetAllCorporates)
			admin.GET("/corporates/:id", corporateHandler.GetCorporateByID)
			admin.GET("/dashboard", dashboardHandler.AdminDashboard)
		}

		corporate := apiV1.Group("/corporate")
		corporate.Use(middleware.Authenticate())
		corporate.Use(middleware.Authorize(models.RoleCorporateAdmin))
		{
			corporate.POST("/franchises", franchiseHandler.CreateFranchise)
			corporate.GET("/franchises", franchiseHandler.GetMyFranchises)
			corporate.GET("/dashboard", dashboardHandler.CorporateDashboard)
		}

		franchise := apiV1.Group("/franchise")
		franchise.Use(middleware.Authenticate())
		franchise.Use(middleware.Authorize(models.RoleFranchiseOwner, models.RoleAdmin))
		{
			franchise.POST("/stations", stationHandler.CreateStation)
			franchise.PATCH("/stations/:id", stationHandler.UpdateStation)
			franchise.POST("/stations/:id/chargers", stationHandler.AddCharger)
			franchise.POST("/stations/:id/managers", stationHandler.AssignManager)
			franchise.GET("/dashboard", dashboardHandler.FranchiseDashboard)
		}

		station := apiV1.Group("/station")
		station.Use(middleware.Authenticate())
		station.Use(middleware.Authorize(models.RoleStationManager, models.RoleFranchiseOwner, models.RoleAdmin))
		{
			station.PUT("/stations/:id/chargers/:chargerId/status", stationHandler.SetChargerStatus)
			station.POST("/bookings/:id/start", bookingHandler.StartBooking)
			station.POST("/bookings/:id/complete", bookingHandler.CompleteBooking)
			station.GET("/dashboard", dashboardHandler.StationDashboard)
		}

		user := apiV1.Group("/")
		user.Use(middleware.Authenticate())
		{
			user.GET("/me", userHandler.Me)
			user.PATCH("/me", userHandler.UpdateMe)

			user.GET("/notifications", notificationHandler.GetMyNotifications)
			user.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			user.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		}

		endUser := apiV1.Group("/")
		endUser.Use(middleware.Authenticate())
		endUser.Use(middleware.Authorize(models.RoleEndUser))
		{
			endUser.POST("/vehicles", vehicleHandler.CreateVehicle)
			endUser.GET("/vehicles", vehicleHandler.GetMyVehicles)
			endUser.PATCH("/vehicles/:id", vehicleHandler.UpdateVehicle)
			endUser.DELETE("/vehicles/:id", vehicleHandler.DeleteVehicle)

			endUser.POST("/bookings", bookingHandler.CreateBooking)
			endUser.POST("/bookings/initiate", bookingHandler.InitiateBooking)
			endUser.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)
			endUser.GET("/bookings", bookingHandler.GetMyBookings)
			endUser.GET("/bookings/:id", bookingHandler.GetBookingByID)

			endUser.GET("/dashboard", dashboardHandler.UserDashboard)
		}
	}

	return router
}
