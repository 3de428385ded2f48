package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		title   string
		message string
	}{
		{services.NotFound("Category", "id", 4), 404, "Not Found", "Category not found with id: 4"},
		{services.BadRequest("Amount must be greater than zero"), 400, "Bad Request", "Amount must be greater than zero"},
		{services.Validation("name: must not be blank"), 400, "Validation Failed", "Invalid input data"},
		{services.BusinessRule("Category with name 'Food' already exists"), 422, "Business Validation Failed", "Category with name 'Food' already exists"},
		{services.Unauthorized("Invalid username or password"), 401, "Unauthorized", "Invalid username or password"},
		{services.Forbidden("Account is disabled"), 403, "Forbidden", "Account is disabled"},
		{errors.New("pq: connection refused on 10.0.0.3"), 500, "Internal Server Error", "An unexpected error occurred"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/x", nil), tc.err)

		require.Equal(t, tc.status, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, tc.title, body.Error)
		assert.Equal(t, tc.message, body.Message)
		assert.Equal(t, "/api/v1/x", body.Path)
	}

	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), services.Validation("a: x", "b: y"))
	assert.Contains(t, rec.Body.String(), `"details":["a: x","b: y"]`)
}

func TestPageQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&size=5&sortBy=amount&sortDir=asc", nil)
	page, err := pageQuery(req)
	require.NoError(t, err)
	assert.Equal(t, models.PageRequest{Page: 2, Size: 5, SortBy: "amount", SortDir: models.SortAsc}, page)

	page, err = pageQuery(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPageSize, page.Size)
	assert.Equal(t, models.SortDesc, page.SortDir)

	_, err = pageQuery(httptest.NewRequest(http.MethodGet, "/?size=ten", nil))
	assert.Equal(t, services.KindBadRequest, services.KindOf(err))
}

func TestDecodeJSONValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"name": "  ", "color": "red"}`))
	var dst models.CategoryCreateRequest
	err := decodeJSON(req, &dst)

	var svcErr *services.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)
	assert.Equal(t, []string{"name: must not be blank", "color: must be a hex color like #1a2b3c"}, svcErr.Details)

	req = httptest.NewRequest(http.MethodPost, "/", jsonBody(``))
	assert.Equal(t, services.KindBadRequest, services.KindOf(decodeJSON(req, &dst)))
}

func TestCheckAmount(t *testing.T) {
	big := decimal.RequireFromString("12345678901")
	fine := decimal.RequireFromString("9999999999.99")
	assert.Equal(t, []string{"amount: must not be null"}, checkAmount(nil, "amount", nil, true))
	assert.Empty(t, checkAmount(nil, "amount", nil, false))
	assert.Empty(t, checkAmount(nil, "amount", &fine, true))
	assert.Len(t, checkAmount(nil, "amount", &big, true), 1)
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
