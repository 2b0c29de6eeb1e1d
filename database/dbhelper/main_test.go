package dbhelper

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/database"
)

var (
	mysqlDuplicateErr  = mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	mysqlConstraintErr = mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}
	mysqlFKErr         = mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
)

// setupMock swaps the package connection for a sqlmock one for the duration
// of the test.
func setupMock(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := database.QuickPlate
	database.QuickPlate = db
	t.Cleanup(func() {
		database.QuickPlate = prev
		db.Close()
	})
	return mock
}
