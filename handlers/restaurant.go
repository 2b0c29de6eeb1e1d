package handlers

import (
	"net/http"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/utils"
)

type createRestaurantRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	CuisineType  *string `json:"cuisine_type"`
	OpeningHours *string `json:"opening_hours"`
	AdminID      *int64  `json:"admin_id"`
}

func CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req createRestaurantRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := dbhelper.CreateRestaurant(req.Name, req.Address, req.Phone, req.Email, req.CuisineType, req.OpeningHours, req.AdminID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := dbhelper.ListRestaurants()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(restaurants), "restaurants": restaurants})
}

// ListMyRestaurants returns the restaurants owned by the calling
// restaurant admin. One admin may own several.
func ListMyRestaurants(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	restaurants, err := dbhelper.ListRestaurantsByAdmin(claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(restaurants), "restaurants": restaurants})
}

func GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	restaurant, err := dbhelper.GetRestaurantByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, restaurant)
}

type updateRestaurantRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	CuisineType  *string `json:"cuisine_type"`
	OpeningHours *string `json:"opening_hours"`
	AdminID      *int64  `json:"admin_id"`
	IsActive     *bool   `json:"is_active"`
}

func UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
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

	var req updateRestaurantRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AdminID != nil && claims.Role != models.RoleSystemAdmin {
		utils.RespondError(w, http.StatusForbidden, "only a system admin may reassign a restaurant")
		return
	}

	ok, err := ownsRestaurant(claims, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusForbidden, "restaurant does not belong to you")
		return
	}

	err = dbhelper.UpdateRestaurant(id, models.RestaurantUpdate{
		Name:         req.Name,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		CuisineType:  req.CuisineType,
		OpeningHours: req.OpeningHours,
		AdminID:      req.AdminID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "restaurant updated"})
}

func DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
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

	ok, err := ownsRestaurant(claims, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusForbidden, "restaurant does not belong to you")
		return
	}

	if err := dbhelper.DeleteRestaurant(id); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "restaurant deleted"})
}

// ownsRestaurant checks that the caller administers the restaurant; system
// admins pass unconditionally.
func ownsRestaurant(claims *middlewares.Claims, restaurantID int64) (bool, error) {
	if claims.Role == models.RoleSystemAdmin {
		return true, nil
	}
	restaurant, err := dbhelper.GetRestaurantByID(restaurantID)
	if err != nil {
		return false, err
	}
	return restaurant.AdminID != nil && *restaurant.AdminID == claims.UserID, nil
}
