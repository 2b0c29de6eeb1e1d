package dbhelper

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

const userColumns = "`id`, `username`, `password`, `email`, `phone`, `address`, `role`, `created_at`"

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.Phone, &u.Address, &u.Role, &u.CreatedAt)
	return u, err
}

func CreateUser(username, hashedPassword, email string, phone, address *string, role models.Role) (int64, error) {
	res, err := database.QuickPlate.Exec(
		"INSERT INTO `Users` (`username`, `password`, `email`, `phone`, `address`, `role`) VALUES (?, ?, ?, ?, ?, ?)",
		username, hashedPassword, email, phone, address, role)
	if err != nil {
		if database.IsDuplicateErr(err) {
			return 0, errors.Wrapf(models.ErrDuplicate, "username %q is taken", username)
		}
		return 0, errors.Wrap(err, "failed to create user")
	}
	id, err := res.LastInsertId()
	return id, errors.Wrap(err, "failed to read new user id")
}

func ListUsers() ([]models.User, error) {
	return queryUsers("SELECT " + userColumns + " FROM `Users` ORDER BY `id`")
}

func ListUsersByRole(role models.Role) ([]models.User, error) {
	return queryUsers("SELECT "+userColumns+" FROM `Users` WHERE `role` = ? ORDER BY `id`", role)
}

func queryUsers(query string, args ...interface{}) ([]models.User, error) {
	rows, err := database.QuickPlate.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		users = append(users, u)
	}
	return users, errors.Wrap(rows.Err(), "failed to iterate users")
}

func GetUserByID(id int64) (models.User, error) {
	u, err := scanUser(database.QuickPlate.QueryRow(
		"SELECT "+userColumns+" FROM `Users` WHERE `id` = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return u, errors.Wrap(err, "failed to get user")
}

// GetUserByCredentials looks a user up by username and verifies the bcrypt
// hash. Both an unknown username and a wrong password return ErrNotFound so
// the login surface cannot be used to enumerate accounts.
func GetUserByCredentials(username, password string) (models.User, error) {
	u, err := scanUser(database.QuickPlate.QueryRow(
		"SELECT "+userColumns+" FROM `Users` WHERE `username` = ?", username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "failed to look up user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

// UpdateUser applies the supplied fields only; nil fields keep their stored
// values. Password must already be hashed by the caller.
func UpdateUser(id int64, upd models.UserUpdate) error {
	var set []string
	var args []interface{}
	appendSet(&set, &args, "`username` = ?", upd.Username)
	appendSet(&set, &args, "`password` = ?", upd.Password)
	appendSet(&set, &args, "`email` = ?", upd.Email)
	appendSet(&set, &args, "`phone` = ?", upd.Phone)
	appendSet(&set, &args, "`address` = ?", upd.Address)
	appendSet(&set, &args, "`role` = ?", upd.Role)
	return execUpdate("Users", id, set, args, "user")
}

func DeleteUser(id int64) error {
	res, err := database.QuickPlate.Exec("DELETE FROM `Users` WHERE `id` = ?", id)
	if err != nil {
		if database.IsConstraintErr(err) {
			return errors.Wrap(models.ErrConstraint, "user is referenced by existing records")
		}
		return errors.Wrap(err, "failed to delete user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// appendSet adds a clause when the value pointer is non-nil, giving update
// structs their tri-state semantics: nil keeps the stored value, non-nil
// overwrites it.
func appendSet[T any](set *[]string, args *[]interface{}, clause string, val *T) {
	if val == nil {
		return
	}
	*set = append(*set, clause)
	*args = append(*args, *val)
}

// execUpdate runs the dynamic UPDATE built by the callers. An empty field
// set still verifies existence so the caller gets ErrNotFound semantics.
func execUpdate(table string, id int64, set []string, args []interface{}, entity string) error {
	if len(set) == 0 {
		var exists bool
		err := database.QuickPlate.QueryRow("SELECT EXISTS (SELECT 1 FROM `"+table+"` WHERE `id` = ?)", id).Scan(&exists)
		if err != nil {
			return errors.Wrapf(err, "failed to check %s existence", entity)
		}
		if !exists {
			return models.ErrNotFound
		}
		return nil
	}

	args = append(args, id)
	res, err := database.QuickPlate.Exec(
		"UPDATE `"+table+"` SET "+strings.Join(set, ", ")+" WHERE `id` = ?", args...)
	if err != nil {
		if database.IsDuplicateErr(err) {
			return errors.Wrapf(models.ErrDuplicate, "%s update conflicts with an existing record", entity)
		}
		return errors.Wrapf(err, "failed to update %s", entity)
	}
	// RowsAffected is 0 both for a missing row and for a no-op write, so a
	// miss is confirmed separately.
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := database.QuickPlate.QueryRow("SELECT EXISTS (SELECT 1 FROM `"+table+"` WHERE `id` = ?)", id).Scan(&exists); err != nil {
			return errors.Wrapf(err, "failed to check %s existence", entity)
		}
		if !exists {
			return models.ErrNotFound
		}
	}
	return nil
}
