package handlers

import (
	"net/http"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/utils"
)

type addCartItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"required,gt=0"`
}

func AddCartItem(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addCartItemRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := dbhelper.GetMenuItemByID(req.MenuItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !item.IsAvailable {
		utils.RespondError(w, http.StatusBadRequest, "menu item is not available")
		return
	}

	if err := dbhelper.AddCartItem(claims.UserID, req.MenuItemID, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "added to cart"})
}

func GetCart(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lines, err := dbhelper.GetCart(claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	total, err := dbhelper.CartTotal(claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(lines),
		"items": lines,
		"total": total,
	})
}

type updateCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// UpdateCartQuantity sets the quantity of a line; zero removes it.
func UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	menuItemID, err := pathID(r, "itemID")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateCartQuantityRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.UpdateCartQuantity(claims.UserID, menuItemID, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

func RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	menuItemID, err := pathID(r, "itemID")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.RemoveCartItem(claims.UserID, menuItemID); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "removed from cart"})
}

func ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := dbhelper.ClearCart(claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

type checkoutRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required,max=50"`
}

// Checkout converts the caller's cart into an order.
func Checkout(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	orderID, err := dbhelper.Checkout(claims.UserID, req.DeliveryAddress, req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]int64{"order_id": orderID})
}
