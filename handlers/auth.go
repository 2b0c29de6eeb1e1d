package handlers

import (
	"net/http"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/utils"
)

type registerRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Password string      `json:"password" validate:"required,min=6"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    *string     `json:"phone"`
	Address  *string     `json:"address"`
	Role     models.Role `json:"role" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	ID    int64       `json:"id"`
	Role  models.Role `json:"role"`
}

// Register creates an account. System admins are provisioned through the
// admin user management surface, not self-registration.
func Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Role.IsValid() || req.Role == models.RoleSystemAdmin {
		utils.RespondError(w, http.StatusBadRequest, "role must be one of: restaurant_admin, customer, delivery_partner")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	id, err := dbhelper.CreateUser(req.Username, hashed, req.Email, req.Phone, req.Address, req.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := utils.GenerateAccessToken(id, req.Role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, authResponse{Token: token, ID: id, Role: req.Role})
}

// Login keeps the external contract: username + password in, role + id out
// (wrapped in a signed token). Hash comparison happens in the repository.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := dbhelper.GetUserByCredentials(req.Username, req.Password)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, authResponse{Token: token, ID: user.ID, Role: user.Role})
}

// GetProfile returns the caller's own record.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := dbhelper.GetUserByID(claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// UpdateProfile applies a partial self-update. Omitted fields keep their
// stored values; role changes are not offered here.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileUpdateRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := models.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		upd.Password = &hashed
	}

	if err := dbhelper.UpdateUser(claims.UserID, upd); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}
