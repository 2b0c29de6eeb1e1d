package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/utils"
)

// perDeliveryRate is the flat presentation-layer earnings figure; nothing
// is persisted.
var perDeliveryRate = decimal.NewFromInt(40)

type createPartnerRequest struct {
	UserID        int64              `json:"user_id" validate:"required,gt=0"`
	VehicleType   models.VehicleType `json:"vehicle_type" validate:"required"`
	VehicleNumber string             `json:"vehicle_number" validate:"required,max=50"`
	LicenseNumber *string            `json:"license_number"`
}

// CreateDeliveryPartner provisions a partner profile for an existing user
// with the delivery_partner role.
func CreateDeliveryPartner(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.VehicleType.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "vehicle type must be one of: bike, car, bicycle")
		return
	}

	user, err := dbhelper.GetUserByID(req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user.Role != models.RoleDeliveryPartner {
		utils.RespondError(w, http.StatusBadRequest, "user does not have the delivery_partner role")
		return
	}

	id, err := dbhelper.CreateDeliveryPartner(req.UserID, req.VehicleType, req.VehicleNumber, req.LicenseNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListDeliveryPartners returns all partners, best rated first.
func ListDeliveryPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := dbhelper.ListDeliveryPartners()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(partners), "partners": partners})
}

func GetDeliveryPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	partner, err := dbhelper.GetDeliveryPartnerByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, partner)
}

func DeleteDeliveryPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := dbhelper.DeleteDeliveryPartner(id); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "delivery partner deleted"})
}

type partnerRatingRequest struct {
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
}

// UpdatePartnerRating sets a partner's rating. Partner ratings come from
// outside the order flow, so this stays a plain admin write.
func UpdatePartnerRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req partnerRatingRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.UpdatePartnerRating(id, req.Rating); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]float64{"rating": req.Rating})
}

// callerPartner resolves the calling user's partner profile.
func callerPartner(r *http.Request) (models.DeliveryPartner, error) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		return models.DeliveryPartner{}, err
	}
	return dbhelper.GetDeliveryPartnerByUserID(claims.UserID)
}

// GetMyPartnerProfile returns the caller's partner profile and stats.
func GetMyPartnerProfile(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, partner)
}

type updatePartnerRequest struct {
	VehicleType   *models.VehicleType `json:"vehicle_type"`
	VehicleNumber *string             `json:"vehicle_number" validate:"omitempty,max=50"`
	LicenseNumber *string             `json:"license_number"`
}

func UpdateMyPartnerProfile(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req updatePartnerRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.VehicleType != nil && !req.VehicleType.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "vehicle type must be one of: bike, car, bicycle")
		return
	}

	err = dbhelper.UpdateDeliveryPartner(partner.ID, models.DeliveryPartnerUpdate{
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

type onlineStatusRequest struct {
	IsOnline bool `json:"is_online"`
}

func SetOnlineStatus(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req onlineStatusRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.SetPartnerOnline(partner.ID, req.IsOnline); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"is_online": req.IsOnline})
}

type locationRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func UpdateLocation(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req locationRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.UpdatePartnerLocation(partner.ID, req.Latitude, req.Longitude); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "location updated"})
}

// ListAvailableOrders shows confirmed, unassigned orders. Only partners
// currently online may see the list.
func ListAvailableOrders(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !partner.IsOnline {
		writeDomainError(w, models.ErrPartnerOffline)
		return
	}

	orders, err := dbhelper.ListAvailableOrders()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(orders), "orders": orders})
}

// AcceptOrder claims an order. Of two concurrent accepts exactly one wins;
// the loser gets a conflict telling it to refresh the available list.
func AcceptOrder(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !partner.IsOnline {
		writeDomainError(w, models.ErrPartnerOffline)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.AssignDeliveryPartner(orderID, partner.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"order_id": orderID, "message": "order assigned to you"})
}

// ListMyDeliveries returns every order assigned to the caller.
func ListMyDeliveries(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	orders, err := dbhelper.ListOrdersByDeliveryPartner(partner.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(orders), "orders": orders})
}

// PickupOrder moves an assigned order to picked_up.
func PickupOrder(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.PickupOrder(orderID, partner.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"order_id": orderID, "status": models.StatusPickedUp})
}

// DeliverOrder completes the delivery and bumps the caller's counter.
func DeliverOrder(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := dbhelper.MarkOrderDelivered(orderID, partner.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"order_id": orderID, "status": models.StatusDelivered})
}

// GetEarnings computes the flat-rate earnings summary over delivered and
// paid orders at read time.
func GetEarnings(w http.ResponseWriter, r *http.Request) {
	partner, err := callerPartner(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders, err := dbhelper.ListOrdersByDeliveryPartner(partner.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	deliveries := 0
	for _, o := range orders {
		if o.Status == models.StatusDelivered && o.PaymentStatus == models.PaymentPaid {
			deliveries++
		}
	}
	earnings := perDeliveryRate.Mul(decimal.NewFromInt(int64(deliveries)))

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deliveries":        deliveries,
		"per_delivery_rate": perDeliveryRate,
		"earnings":          earnings,
	})
}
