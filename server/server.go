package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quickplate/quickplate/handlers"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes() *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")
	router.HandleFunc("/register", handlers.Register).Methods("POST")
	router.HandleFunc("/login", handlers.Login).Methods("POST")

	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware)

	authRoutes.HandleFunc("/profile", handlers.GetProfile).Methods("GET")
	authRoutes.HandleFunc("/profile", handlers.UpdateProfile).Methods("PUT")

	authRoutes.HandleFunc("/restaurants", handlers.ListRestaurants).Methods("GET")
	authRoutes.HandleFunc("/restaurants/{id}", handlers.GetRestaurant).Methods("GET")
	authRoutes.HandleFunc("/restaurants/{id}/menu", handlers.ListRestaurantMenu).Methods("GET")
	authRoutes.HandleFunc("/restaurants/{id}/ratings", handlers.ListRestaurantRatings).Methods("GET")
	authRoutes.HandleFunc("/menu-items/{id}", handlers.GetMenuItem).Methods("GET")
	authRoutes.HandleFunc("/menu-items/{id}/ratings", handlers.ListItemRatings).Methods("GET")

	// system admin only
	admin := authRoutes.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.RoleBasedMiddleware(models.RoleSystemAdmin))

	admin.HandleFunc("/summary", handlers.PlatformSummary).Methods("GET")
	admin.HandleFunc("/users", handlers.CreateUser).Methods("POST")
	admin.HandleFunc("/users", handlers.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/menu-items", handlers.ListMenuItems).Methods("GET")
	admin.HandleFunc("/orders", handlers.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/payment", handlers.UpdatePaymentStatus).Methods("PUT")
	admin.HandleFunc("/delivery-partners", handlers.CreateDeliveryPartner).Methods("POST")
	admin.HandleFunc("/delivery-partners", handlers.ListDeliveryPartners).Methods("GET")
	admin.HandleFunc("/delivery-partners/{id}", handlers.GetDeliveryPartner).Methods("GET")
	admin.HandleFunc("/delivery-partners/{id}", handlers.DeleteDeliveryPartner).Methods("DELETE")
	admin.HandleFunc("/delivery-partners/{id}/rating", handlers.UpdatePartnerRating).Methods("PUT")

	// restaurant admin, with the system admin allowed through for support
	restro := authRoutes.PathPrefix("/restaurant").Subrouter()
	restro.Use(middlewares.RoleBasedMiddleware(models.RoleRestaurantAdmin, models.RoleSystemAdmin))

	restro.HandleFunc("/restaurants", handlers.CreateRestaurant).Methods("POST")
	restro.HandleFunc("/restaurants", handlers.ListMyRestaurants).Methods("GET")
	restro.HandleFunc("/restaurants/{id}", handlers.UpdateRestaurant).Methods("PUT")
	restro.HandleFunc("/restaurants/{id}", handlers.DeleteRestaurant).Methods("DELETE")
	restro.HandleFunc("/restaurants/{id}/dashboard", handlers.RestaurantDashboard).Methods("GET")
	restro.HandleFunc("/restaurants/{id}/orders", handlers.ListRestaurantOrders).Methods("GET")
	restro.HandleFunc("/menu-items", handlers.CreateMenuItem).Methods("POST")
	restro.HandleFunc("/menu-items/{id}", handlers.UpdateMenuItem).Methods("PUT")
	restro.HandleFunc("/menu-items/{id}", handlers.DeleteMenuItem).Methods("DELETE")
	restro.HandleFunc("/orders/{id}/status", handlers.UpdateOrderStatus).Methods("PUT")

	// customer only
	customer := authRoutes.PathPrefix("/customer").Subrouter()
	customer.Use(middlewares.RoleBasedMiddleware(models.RoleCustomer))

	customer.HandleFunc("/cart", handlers.GetCart).Methods("GET")
	customer.HandleFunc("/cart", handlers.ClearCart).Methods("DELETE")
	customer.HandleFunc("/cart/items", handlers.AddCartItem).Methods("POST")
	customer.HandleFunc("/cart/items/{itemID}", handlers.UpdateCartQuantity).Methods("PUT")
	customer.HandleFunc("/cart/items/{itemID}", handlers.RemoveCartItem).Methods("DELETE")
	customer.HandleFunc("/cart/checkout", handlers.Checkout).Methods("POST")
	customer.HandleFunc("/orders", handlers.ListMyOrders).Methods("GET")
	customer.HandleFunc("/restaurants/{id}/ratings", handlers.RateRestaurant).Methods("POST")
	customer.HandleFunc("/menu-items/{id}/ratings", handlers.RateMenuItem).Methods("POST")

	// delivery partner only
	partner := authRoutes.PathPrefix("/partner").Subrouter()
	partner.Use(middlewares.RoleBasedMiddleware(models.RoleDeliveryPartner))

	partner.HandleFunc("/profile", handlers.GetMyPartnerProfile).Methods("GET")
	partner.HandleFunc("/profile", handlers.UpdateMyPartnerProfile).Methods("PUT")
	partner.HandleFunc("/online", handlers.SetOnlineStatus).Methods("PUT")
	partner.HandleFunc("/location", handlers.UpdateLocation).Methods("PUT")
	partner.HandleFunc("/orders/available", handlers.ListAvailableOrders).Methods("GET")
	partner.HandleFunc("/orders", handlers.ListMyDeliveries).Methods("GET")
	partner.HandleFunc("/orders/{id}/accept", handlers.AcceptOrder).Methods("POST")
	partner.HandleFunc("/orders/{id}/pickup", handlers.PickupOrder).Methods("POST")
	partner.HandleFunc("/orders/{id}/deliver", handlers.DeliverOrder).Methods("POST")
	partner.HandleFunc("/earnings", handlers.GetEarnings).Methods("GET")

	// shared order detail and cancellation, access checked per role inside
	authRoutes.HandleFunc("/orders/{id}", handlers.GetOrder).Methods("GET")
	authRoutes.HandleFunc("/orders/{id}/cancel", handlers.CancelOrder).Methods("POST")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
