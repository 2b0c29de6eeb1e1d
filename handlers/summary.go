package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/utils"
)

// PlatformSummary is the system admin dashboard: entity counts, order
// status breakdown and revenue over paid orders.
func PlatformSummary(w http.ResponseWriter, r *http.Request) {
	users, err := dbhelper.ListUsers()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	restaurants, err := dbhelper.ListRestaurants()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	orders, err := dbhelper.ListOrders()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	partners, err := dbhelper.ListDeliveryPartners()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	statusCounts := map[models.OrderStatus]int{}
	revenue := decimal.Zero
	for _, o := range orders {
		statusCounts[o.Status]++
		if o.PaymentStatus == models.PaymentPaid {
			revenue = revenue.Add(o.TotalAmount)
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users":             len(users),
		"restaurants":       len(restaurants),
		"delivery_partners": len(partners),
		"orders":            len(orders),
		"order_statuses":    statusCounts,
		"revenue":           revenue,
	})
}

// RestaurantDashboard aggregates one owned restaurant's orders: revenue
// over paid orders and a status breakdown.
func RestaurantDashboard(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	restaurantID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := ownsRestaurant(claims, restaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusForbidden, "restaurant does not belong to you")
		return
	}

	orders, err := dbhelper.ListOrdersByRestaurant(restaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	average, err := dbhelper.RestaurantAverageRating(restaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	statusCounts := map[models.OrderStatus]int{}
	revenue := decimal.Zero
	for _, o := range orders {
		statusCounts[o.Status]++
		if o.PaymentStatus == models.PaymentPaid {
			revenue = revenue.Add(o.TotalAmount)
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":         len(orders),
		"order_statuses": statusCounts,
		"revenue":        revenue,
		"average_rating": average,
	})
}
