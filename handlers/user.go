package handlers

import (
	"net/http"

	"github.com/quickplate/quickplate/database/dbhelper"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/utils"
)

type createUserRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Password string      `json:"password" validate:"required,min=6"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    *string     `json:"phone"`
	Address  *string     `json:"address"`
	Role     models.Role `json:"role" validate:"required"`
}

// CreateUser is the admin path: any role may be provisioned here.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Role.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid role")
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
	utils.RespondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListUsers returns all users, optionally filtered by ?role=.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []models.User
		err   error
	)
	if roleStr := r.URL.Query().Get("role"); roleStr != "" {
		role := models.Role(roleStr)
		if !role.IsValid() {
			utils.RespondError(w, http.StatusBadRequest, "invalid role filter")
			return
		}
		users, err = dbhelper.ListUsersByRole(role)
	} else {
		users, err = dbhelper.ListUsers()
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"count": len(users), "users": users})
}

func GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := dbhelper.GetUserByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Username *string      `json:"username" validate:"omitempty,min=3,max=100"`
	Password *string      `json:"password" validate:"omitempty,min=6"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Phone    *string      `json:"phone"`
	Address  *string      `json:"address"`
	Role     *models.Role `json:"role"`
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateUserRequest
	if err := parseJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role != nil && !req.Role.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	upd := models.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     req.Role,
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		upd.Password = &hashed
	}

	if err := dbhelper.UpdateUser(id, upd); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := dbhelper.DeleteUser(id); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
