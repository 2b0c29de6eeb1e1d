package handlers

import (
	"net/http"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/utils"
)

type rateRequest struct {
	Rating int     `json:"rating" validate:"required,gte=1,lte=5"`
	Review *string `json:"review"`
}

// RateRestaurant records or overwrites the caller's rating of a restaurant.
func RateRestaurant(w http.ResponseWriter, r *http.Request) {
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

	var req rateRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.RateRestaurant(restaurantID, claims.UserID, req.Rating, req.Review); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "rating recorded"})
}

// RateMenuItem records or overwrites the caller's rating of a menu item.
func RateMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	menuItemID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req rateRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.RateMenuItem(menuItemID, claims.UserID, req.Rating, req.Review); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "rating recorded"})
}

// ListRestaurantRatings returns the reviews plus the current average.
func ListRestaurantRatings(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ratings, err := dbhelper.ListRestaurantRatings(restaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	average, err := dbhelper.RestaurantAverageRating(restaurantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(ratings),
		"average": average,
		"ratings": ratings,
	})
}

// ListItemRatings returns the reviews plus the current average.
func ListItemRatings(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ratings, err := dbhelper.ListItemRatings(menuItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	average, err := dbhelper.MenuItemAverageRating(menuItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(ratings),
		"average": average,
		"ratings": ratings,
	})
}
