package dbhelper

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

const partnerSelect = "SELECT dp.`id`, dp.`user_id`, dp.`vehicle_type`, dp.`vehicle_number`, dp.`license_number`, " +
	"dp.`is_online`, dp.`rating`, dp.`total_deliveries`, dp.`current_latitude`, dp.`current_longitude`, dp.`created_at`, " +
	"u.`username`, u.`phone` " +
	"FROM `DeliveryPartners` dp " +
	"LEFT JOIN `Users` u ON dp.`user_id` = u.`id`"

func scanPartner(row interface{ Scan(...interface{}) error }) (models.DeliveryPartner, error) {
	var p models.DeliveryPartner
	err := row.Scan(&p.ID, &p.UserID, &p.VehicleType, &p.VehicleNumber, &p.LicenseNumber,
		&p.IsOnline, &p.Rating, &p.TotalDeliveries, &p.Latitude, &p.Longitude, &p.CreatedAt,
		&p.Username, &p.Phone)
	return p, err
}

func CreateDeliveryPartner(userID int64, vehicleType models.VehicleType, vehicleNumber string, licenseNumber *string) (int64, error) {
	res, err := database.QuickPlate.Exec(
		"INSERT INTO `DeliveryPartners` (`user_id`, `vehicle_type`, `vehicle_number`, `license_number`) VALUES (?, ?, ?, ?)",
		userID, vehicleType, vehicleNumber, licenseNumber)
	if err != nil {
		if database.IsDuplicateErr(err) {
			return 0, errors.Wrap(models.ErrDuplicate, "user already has a delivery partner profile")
		}
		if database.IsConstraintErr(err) {
			return 0, errors.Wrap(models.ErrConstraint, "user does not exist")
		}
		return 0, errors.Wrap(err, "failed to create delivery partner")
	}
	id, err := res.LastInsertId()
	return id, errors.Wrap(err, "failed to read new delivery partner id")
}

// ListDeliveryPartners orders by rating, best first.
func ListDeliveryPartners() ([]models.DeliveryPartner, error) {
	return queryPartners(partnerSelect + " ORDER BY dp.`rating` DESC, dp.`id`")
}

func queryPartners(query string, args ...interface{}) ([]models.DeliveryPartner, error) {
	rows, err := database.QuickPlate.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query delivery partners")
	}
	defer rows.Close()

	var partners []models.DeliveryPartner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan delivery partner")
		}
		partners = append(partners, p)
	}
	return partners, errors.Wrap(rows.Err(), "failed to iterate delivery partners")
}

func GetDeliveryPartnerByID(id int64) (models.DeliveryPartner, error) {
	p, err := scanPartner(database.QuickPlate.QueryRow(partnerSelect+" WHERE dp.`id` = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeliveryPartner{}, models.ErrNotFound
	}
	return p, errors.Wrap(err, "failed to get delivery partner")
}

// GetDeliveryPartnerByUserID resolves the 1:1 user link, used to find the
// caller's own partner profile from JWT claims.
func GetDeliveryPartnerByUserID(userID int64) (models.DeliveryPartner, error) {
	p, err := scanPartner(database.QuickPlate.QueryRow(partnerSelect+" WHERE dp.`user_id` = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeliveryPartner{}, models.ErrNotFound
	}
	return p, errors.Wrap(err, "failed to get delivery partner")
}

func UpdateDeliveryPartner(id int64, upd models.DeliveryPartnerUpdate) error {
	var set []string
	var args []interface{}
	appendSet(&set, &args, "`vehicle_type` = ?", upd.VehicleType)
	appendSet(&set, &args, "`vehicle_number` = ?", upd.VehicleNumber)
	appendSet(&set, &args, "`license_number` = ?", upd.LicenseNumber)
	return execUpdate("DeliveryPartners", id, set, args, "delivery partner")
}

func SetPartnerOnline(id int64, online bool) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `DeliveryPartners` SET `is_online` = ? WHERE `id` = ?", online, id)
	if err != nil {
		return errors.Wrap(err, "failed to update online status")
	}
	return partnerRowTouched(res, id)
}

func UpdatePartnerLocation(id int64, latitude, longitude float64) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `DeliveryPartners` SET `current_latitude` = ?, `current_longitude` = ? WHERE `id` = ?",
		latitude, longitude, id)
	if err != nil {
		return errors.Wrap(err, "failed to update location")
	}
	return partnerRowTouched(res, id)
}

func UpdatePartnerRating(id int64, rating float64) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `DeliveryPartners` SET `rating` = ? WHERE `id` = ?", rating, id)
	if err != nil {
		return errors.Wrap(err, "failed to update partner rating")
	}
	return partnerRowTouched(res, id)
}

func DeleteDeliveryPartner(id int64) error {
	res, err := database.QuickPlate.Exec("DELETE FROM `DeliveryPartners` WHERE `id` = ?", id)
	if err != nil {
		return errors.Wrap(err, "failed to delete delivery partner")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func partnerRowTouched(res sql.Result, id int64) error {
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := database.QuickPlate.QueryRow("SELECT EXISTS (SELECT 1 FROM `DeliveryPartners` WHERE `id` = ?)", id).Scan(&exists); err != nil {
			return errors.Wrap(err, "failed to check delivery partner existence")
		}
		if !exists {
			return models.ErrNotFound
		}
	}
	return nil
}
