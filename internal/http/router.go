package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"puja-backend/internal/handlers"
	"puja-backend/internal/middleware"
	"puja-backend/internal/monitoring"
)

func NewRouter(
	userAuthHandler *handlers.UserAuthHandler,
	adminHandler *handlers.AdminHandler,
	agentHandler *handlers.AgentHandler,
	pujaHandler *handlers.PujaHandler,
	paymentHandler *handlers.PaymentHandler,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
	couponHandler *handlers.CouponHandler,
	templeHandler *handlers.TempleHandler,
	carouselHandler *handlers.CarouselHandler,
	feedbackHandler *handlers.FeedbackHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	dashboardFeed *monitoring.DashboardFeed,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public - OTP registration and user auth
	r.HandleFunc("/userregister/createAccount", userAuthHandler.CreateAccount).Methods("POST")
	r.HandleFunc("/userregister/verify-otp", userAuthHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/userregister/reset-password", userAuthHandler.ResetPassword).Methods("POST")
	r.HandleFunc("/userregister/login", userAuthHandler.Login).Methods("POST")

	// set-password requires an authenticated devotee
	r.Handle("/userregister/set-password",
		authMiddleware.AuthenticateUser(http.HandlerFunc(userAuthHandler.SetPassword))).Methods("POST")

	// Devotee profile
	usersAPI := r.PathPrefix("/users").Subrouter()
	usersAPI.Use(authMiddleware.AuthenticateUser)
	usersAPI.HandleFunc("/profile", userAuthHandler.GetProfile).Methods("GET")
	usersAPI.HandleFunc("/profile", userAuthHandler.UpdateProfile).Methods("PUT")

	// Public - admin auth
	r.HandleFunc("/admin/register", adminHandler.Register).Methods("POST")
	r.HandleFunc("/admin/login", adminHandler.Login).Methods("POST")
	r.HandleFunc("/admin/login/totp", adminHandler.TOTPLogin).Methods("POST")

	// Public - agent auth
	r.HandleFunc("/agents/register", agentHandler.Register).Methods("POST")
	r.HandleFunc("/agents/login", agentHandler.Login).Methods("POST")

	// Agent portal
	agentsAPI := r.PathPrefix("/agents").Subrouter()
	agentsAPI.Use(authMiddleware.AuthenticateAgent)
	agentsAPI.HandleFunc("/wallet", agentHandler.GetWallet).Methods("GET")
	agentsAPI.HandleFunc("/withdrawals", agentHandler.RequestWithdrawal).Methods("POST")
	agentsAPI.HandleFunc("/withdrawals", agentHandler.ListWithdrawals).Methods("GET")

	// Public catalog reads
	r.HandleFunc("/pujas", pujaHandler.ListPujas).Methods("GET")
	r.HandleFunc("/pujas/{code}", pujaHandler.GetPuja).Methods("GET")
	r.HandleFunc("/pujas/{code}/reviews", reviewHandler.ListReviews).Methods("GET")
	r.Handle("/pujas/{code}/reviews",
		authMiddleware.AuthenticateUser(http.HandlerFunc(reviewHandler.SubmitReview))).Methods("POST")

	// Public ancillary
	r.HandleFunc("/temples", templeHandler.List).Methods("GET")
	r.HandleFunc("/carousel", carouselHandler.ListPublic).Methods("GET")
	r.HandleFunc("/feedback", feedbackHandler.Submit).Methods("POST")
	r.HandleFunc("/coupons/validate", couponHandler.Validate).Methods("POST")
	r.HandleFunc("/panchang/refresh", dashboardHandler.RefreshPanchang).Methods("GET")

	// Payments
	r.Handle("/payments/generate-cashfree-token",
		authMiddleware.AuthenticateUser(http.HandlerFunc(paymentHandler.GenerateToken))).Methods("POST")
	r.HandleFunc("/payments/webhook", paymentHandler.Webhook).Methods("POST")
	r.HandleFunc("/payments/retry/{booking_id}", paymentHandler.RetryPayment).Methods("POST")
	r.HandleFunc("/payments/status/{booking_id}", paymentHandler.GetStatus).Methods("GET")
	r.HandleFunc("/payments/gateway-status/{booking_id}", paymentHandler.GetGatewayStatus).Methods("GET")

	// Devotee bookings
	r.Handle("/bookings",
		authMiddleware.AuthenticateUser(http.HandlerFunc(bookingHandler.ListMine))).Methods("GET")

	// Admin console
	adminAPI := r.PathPrefix("/admin").Subrouter()
	adminAPI.Use(authMiddleware.AuthenticateAdmin)
	adminAPI.HandleFunc("/totp/setup", adminHandler.SetupTOTP).Methods("POST")
	adminAPI.HandleFunc("/totp/confirm", adminHandler.ConfirmTOTP).Methods("POST")

	adminAPI.HandleFunc("/pujas", pujaHandler.CreatePuja).Methods("POST")
	adminAPI.HandleFunc("/pujas/{code}", pujaHandler.UpdatePuja).Methods("PUT")
	adminAPI.HandleFunc("/pujas/{code}/packages", pujaHandler.UpdatePackages).Methods("PUT")

	adminAPI.HandleFunc("/bookings", bookingHandler.ListAdmin).Methods("GET")
	adminAPI.HandleFunc("/bookings/{booking_id}/receipt.pdf", bookingHandler.Receipt).Methods("GET")

	adminAPI.HandleFunc("/withdrawals", agentHandler.ListPendingWithdrawals).Methods("GET")
	adminAPI.Handle("/withdrawals/{id}",
		authMiddleware.RequireSuperAdmin(http.HandlerFunc(agentHandler.ResolveWithdrawal))).Methods("PUT")

	adminAPI.HandleFunc("/coupons", couponHandler.Create).Methods("POST")
	adminAPI.HandleFunc("/coupons", couponHandler.List).Methods("GET")
	adminAPI.HandleFunc("/coupons/{id}", couponHandler.SetActive).Methods("PATCH")
	adminAPI.HandleFunc("/coupons/{id}", couponHandler.Delete).Methods("DELETE")

	adminAPI.HandleFunc("/temples", templeHandler.Create).Methods("POST")
	adminAPI.HandleFunc("/temples/{id}", templeHandler.Update).Methods("PUT")
	adminAPI.HandleFunc("/temples/{id}", templeHandler.Delete).Methods("DELETE")

	adminAPI.HandleFunc("/carousel", carouselHandler.Create).Methods("POST")
	adminAPI.HandleFunc("/carousel", carouselHandler.ListAll).Methods("GET")
	adminAPI.HandleFunc("/carousel/{id}", carouselHandler.Update).Methods("PUT")
	adminAPI.HandleFunc("/carousel/{id}", carouselHandler.Delete).Methods("DELETE")

	adminAPI.HandleFunc("/feedback", feedbackHandler.List).Methods("GET")
	adminAPI.HandleFunc("/dashboard", dashboardHandler.GetStats).Methods("GET")

	// Live dashboard feed (token is checked in-page by the console)
	r.HandleFunc("/ws/dashboard", dashboardFeed.HandleWebSocket)

	// Health and metrics
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
