package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/utils"
)

type createMenuItemRequest struct {
	RestaurantID    int64           `json:"restaurant_id" validate:"required,gt=0"`
	Name            string          `json:"name" validate:"required,max=255"`
	Description     *string         `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        *string         `json:"category"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	PreparationTime int             `json:"preparation_time" validate:"omitempty,gt=0"`
}

func CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createMenuItemRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price.IsNegative() {
		utils.RespondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	ok, err := ownsRestaurant(claims, req.RestaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusForbidden, "restaurant does not belong to you")
		return
	}

	prepTime := req.PreparationTime
	if prepTime == 0 {
		prepTime = 15
	}
	id, err := dbhelper.CreateMenuItem(req.RestaurantID, req.Name, req.Description, req.Price, req.Category, req.IsVegetarian, prepTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListRestaurantMenu is the browsing read: available items only, filtered
// in memory by the vegetarian/category/search query parameters.
func ListRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := dbhelper.ListAvailableMenuItemsByRestaurant(restaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	q := r.URL.Query()
	vegOnly := q.Get("vegetarian") == "true"
	category := q.Get("category")
	search := strings.ToLower(q.Get("search"))

	filtered := items[:0]
	for _, item := range items {
		if vegOnly && !item.IsVegetarian {
			continue
		}
		if category != "" && (item.Category == nil || *item.Category != category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		filtered = append(filtered, item)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(filtered), "items": filtered})
}

// ListMenuItems is the admin read: every item, available or not.
func ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := dbhelper.ListMenuItems()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(items), "items": items})
}

func GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := dbhelper.GetMenuItemByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

type updateMenuItemRequest struct {
	Name            *string          `json:"name" validate:"omitempty,max=255"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *string          `json:"category"`
	IsVegetarian    *bool            `json:"is_vegetarian"`
	PreparationTime *int             `json:"preparation_time" validate:"omitempty,gt=0"`
	IsAvailable     *bool            `json:"is_available"`
}

func UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
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

	var req updateMenuItemRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		utils.RespondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	item, err := dbhelper.GetMenuItemByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ok, err := ownsRestaurant(claims, item.RestaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusForbidden, "menu item does not belong to your restaurant")
		return
	}

	err = dbhelper.UpdateMenuItem(id, models.MenuItemUpdate{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		IsVegetarian:    req.IsVegetarian,
		PreparationTime: req.PreparationTime,
		IsAvailable:     req.IsAvailable,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "menu item updated"})
}

func DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
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

	item, err := dbhelper.GetMenuItemByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ok, err := ownsRestaurant(claims, item.RestaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusForbidden, "menu item does not belong to your restaurant")
		return
	}

	if err := dbhelper.DeleteMenuItem(id); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}
