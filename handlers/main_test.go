package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/config"
	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/models"
	"github.com/quickplate/quickplate/server"
	"github.com/quickplate/quickplate/utils"
)

func init() {
	middlewares.Init(&config.Config{JWTSecret: []byte("test-secret")})
}

// setupAPI swaps the package connection for a sqlmock one and builds the
// full router, so requests run through the real middleware chain.
func setupAPI(t *testing.T) (sqlmock.Sqlmock, *mux.Router) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := database.QuickPlate
	database.QuickPlate = db
	t.Cleanup(func() {
		database.QuickPlate = prev
		db.Close()
	})
	return mock, server.SetupRoutes().Router
}

// doJSON sends an authenticated JSON request as the given user and role.
func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, userID int64, role models.Role) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	token, err := utils.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
