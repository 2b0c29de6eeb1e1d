package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/statemachine"
	"github.com/quickplate/quickplate/utils"
)

var validate = validator.New()

// parseJSON decodes the request body into dst and runs struct validation.
func parseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}

// pathID reads a numeric {id}-style path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Unknown
// errors are logged and reported as opaque storage failures; nothing is
// retried on behalf of the caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrDuplicate):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrConstraint):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrEmptyCart):
		utils.RespondError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, models.ErrCartMultipleRestaurants):
		utils.RespondError(w, http.StatusBadRequest, "cart contains items from multiple restaurants; remove items so a single restaurant remains")
	case errors.Is(err, models.ErrOrderAlreadyAssigned):
		utils.RespondError(w, http.StatusConflict, "order was already taken by another delivery partner")
	case errors.Is(err, models.ErrStatusConflict):
		utils.RespondError(w, http.StatusConflict, "order status changed, refresh and try again")
	case errors.Is(err, models.ErrPartnerOffline):
		utils.RespondError(w, http.StatusForbidden, "go online to see available orders")
	case errors.Is(err, statemachine.ErrInvalidTransition):
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logrus.WithError(err).Error("storage failure")
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
