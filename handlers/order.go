package handlers

import (
	"net/http"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/statemachine"
	"github.com/quickplate/quickplate/utils"
)

// ListOrders is the system admin view over every order.
func ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := dbhelper.ListOrders()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(orders), "orders": orders})
}

// ListMyOrders returns the calling customer's orders, newest first.
func ListMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	orders, err := dbhelper.ListOrdersByCustomer(claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(orders), "orders": orders})
}

// GetOrder returns one order with its items. Customers may only see their
// own orders; restaurant admins only orders of restaurants they own.
func GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := dbhelper.GetOrderByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !mayViewOrder(claims, order) {
		utils.RespondError(w, http.StatusForbidden, "this order does not belong to you")
		return
	}

	items, err := dbhelper.GetOrderItems(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"order": order, "items": items})
}

func mayViewOrder(claims *middlewares.Claims, order models.Order) bool {
	switch claims.Role {
	case models.RoleSystemAdmin:
		return true
	case models.RoleCustomer:
		return order.CustomerID == claims.UserID
	case models.RoleRestaurantAdmin:
		ok, err := ownsRestaurant(claims, order.RestaurantID)
		return err == nil && ok
	case models.RoleDeliveryPartner:
		partner, err := dbhelper.GetDeliveryPartnerByUserID(claims.UserID)
		if err != nil {
			return false
		}
		return order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == partner.ID
	}
	return false
}

// ListRestaurantOrders returns orders of one owned restaurant, optionally
// filtered by ?status=, with a per-status summary for the dashboard.
func ListRestaurantOrders(w http.ResponseWriter, r *http.Request) {
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

	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}

	if statusFilter := models.OrderStatus(r.URL.Query().Get("status")); statusFilter != "" {
		if !statusFilter.IsValid() {
			utils.RespondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == statusFilter {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(orders),
		"summary": summary,
		"orders":  orders,
	})
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// UpdateOrderStatus applies a lifecycle transition on behalf of the caller's
// role. The state machine validates the step, the repository guards it
// against concurrent changes.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateOrderStatusRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Status.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	order, err := dbhelper.GetOrderByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if claims.Role == models.RoleRestaurantAdmin {
		ok, err := ownsRestaurant(claims, order.RestaurantID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !ok {
			utils.RespondError(w, http.StatusForbidden, "this order does not belong to your restaurant")
			return
		}
	}

	actor := statemachine.ActorForRole(claims.Role)
	if err := statemachine.CanTransition(order.Status, req.Status, actor); err != nil {
		writeDomainError(w, err)
		return
	}

	// Delivered always goes through the delivery bookkeeping, so the
	// actual delivery time and the partner's counter move no matter who
	// drives the transition.
	if req.Status == models.StatusDelivered {
		if order.DeliveryPartnerID == nil {
			writeDomainError(w, models.ErrStatusConflict)
			return
		}
		if err := dbhelper.MarkOrderDelivered(id, *order.DeliveryPartnerID); err != nil {
			writeDomainError(w, err)
			return
		}
	} else if err := dbhelper.UpdateOrderStatus(id, order.Status, req.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":        id,
		"previous_status": order.Status,
		"current_status":  req.Status,
	})
}

// CancelOrder is the uniform cancellation surface: customers cancel their
// own orders, restaurant admins orders of their restaurants, system admins
// any order. What is cancellable from where is the state machine's call.
func CancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := dbhelper.GetOrderByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	switch claims.Role {
	case models.RoleCustomer:
		if order.CustomerID != claims.UserID {
			utils.RespondError(w, http.StatusForbidden, "this order does not belong to you")
			return
		}
	case models.RoleRestaurantAdmin:
		ok, err := ownsRestaurant(claims, order.RestaurantID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !ok {
			utils.RespondError(w, http.StatusForbidden, "this order does not belong to your restaurant")
			return
		}
	}

	actor := statemachine.ActorForRole(claims.Role)
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, actor); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := dbhelper.UpdateOrderStatus(id, order.Status, models.StatusCancelled); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"order_id": id, "status": models.StatusCancelled})
}

type updatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required"`
}

// UpdatePaymentStatus flips the payment axis; it never touches the order
// status.
func UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updatePaymentStatusRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.PaymentStatus.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid payment status")
		return
	}

	if err := dbhelper.UpdatePaymentStatus(id, req.PaymentStatus); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "payment status updated"})
}
