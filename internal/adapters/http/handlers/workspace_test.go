package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/dto"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/pdf"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/spreadsheet"
	"github.com/jsamuelsen/invoice-builder/internal/app"
)

func setupWorkspaceRouter() (*gin.Engine, *app.Workspace) {
	ws := newTestWorkspace()
	router := gin.New()
	NewWorkspaceHandler(ws, newTestService()).RegisterWorkspaceRoutes(router.Group("/api/v1"))

	return router, ws
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) app.View {
	t.Helper()

	var view app.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	return view
}

func TestWorkspaceHandler_GetView(t *testing.T) {
	router, _ := setupWorkspaceRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/workspace", "")

	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	assert.Len(t, view.Items, 5)
	assert.Len(t, view.Preview, 5)
	assert.Equal(t, "PT Griya Asri", view.Header.CompanyName)
	assert.Equal(t, "Rp\u00a07.950", view.Totals.Subtotal)
	assert.Equal(t, "Rp\u00a0795", view.Totals.Tax)
	assert.Equal(t, "Rp\u00a08.745", view.Totals.GrandTotal)
}

func TestWorkspaceHandler_AddItem(t *testing.T) {
	router, ws := setupWorkspaceRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/workspace/items", "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, decodeView(t, w).Items, 6)
	assert.Len(t, ws.Snapshot().Items, 6)
}

func TestWorkspaceHandler_UpdateItem(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
		expectedCode   string
		check          func(t *testing.T, view app.View)
	}{
		{
			name:           "quantity",
			path:           "/api/v1/workspace/items/0",
			body:           `{"field":"quantity","value":"3"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, view app.View) {
				assert.Equal(t, "3", view.Items[0].Quantity)
				assert.Equal(t, "Rp\u00a0900", view.Items[0].Amount)
				assert.Equal(t, "Rp\u00a08.550", view.Totals.Subtotal)
			},
		},
		{
			name:           "numeric description",
			path:           "/api/v1/workspace/items/1",
			body:           `{"field":"description","value":42}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, view app.View) {
				assert.Equal(t, "42", view.Items[1].Description)
			},
		},
		{
			name:           "garbage price coerces to zero",
			path:           "/api/v1/workspace/items/2",
			body:           `{"field":"unitPrice","value":"abc"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, view app.View) {
				assert.Equal(t, "0", view.Items[2].UnitPrice)
				assert.Equal(t, "Rp\u00a05.450", view.Totals.Subtotal)
			},
		},
		{
			name:           "unknown field",
			path:           "/api/v1/workspace/items/0",
			body:           `{"field":"colour","value":"red"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "missing field",
			path:           "/api/v1/workspace/items/0",
			body:           `{"value":"red"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "index out of range",
			path:           "/api/v1/workspace/items/9",
			body:           `{"field":"quantity","value":"1"}`,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
		},
		{
			name:           "index not a number",
			path:           "/api/v1/workspace/items/first",
			body:           `{"field":"quantity","value":"1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupWorkspaceRouter()

			w := doJSON(router, http.MethodPatch, tt.path, tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				return
			}

			tt.check(t, decodeView(t, w))
		})
	}
}

func TestWorkspaceHandler_RemoveItem(t *testing.T) {
	router, _ := setupWorkspaceRouter()

	w := doJSON(router, http.MethodDelete, "/api/v1/workspace/items/1", "")

	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	require.Len(t, view.Items, 4)
	assert.Equal(t, "Implementation", view.Items[1].Description)
	assert.Equal(t, 1, view.Items[1].Index)
	assert.Equal(t, 2, view.Preview[1].Number)

	w = doJSON(router, http.MethodDelete, "/api/v1/workspace/items/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceHandler_ClearItems(t *testing.T) {
	router, _ := setupWorkspaceRouter()

	w := doJSON(router, http.MethodDelete, "/api/v1/workspace/items", "")

	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	assert.Empty(t, view.Items)
	assert.Equal(t, "Rp\u00a00", view.Totals.GrandTotal)
}

func TestWorkspaceHandler_Settings(t *testing.T) {
	router, _ := setupWorkspaceRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/workspace/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var settings dto.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "INV-1", settings.Number)
	assert.Equal(t, "10", settings.TaxRate.String())

	w = doJSON(router, http.MethodPut, "/api/v1/workspace/settings",
		`{"documentType":"QUOTATION","number":"Q-2","currency":"USD","taxRate":"0","discount":950}`)
	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	assert.Equal(t, "QUOTATION", view.Header.DocumentType)
	assert.Equal(t, "$7,950", view.Totals.Subtotal)
	assert.Equal(t, "$7,000", view.Totals.GrandTotal)

	w = doJSON(router, http.MethodPut, "/api/v1/workspace/settings", `{"currency":"USD","discount":-1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "$7,951", decodeView(t, w).Totals.GrandTotal)
}

func TestWorkspaceHandler_Import(t *testing.T) {
	t.Run("csv replaces rows", func(t *testing.T) {
		router, ws := setupWorkspaceRouter()

		body, contentType := multipartBody(t, "rows.csv", []byte("Hosting,12,150\nDomain;1;200\n"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/import", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.True(t, resp.Changed)
		assert.Equal(t, dto.ImportReport{Lines: 2, Imported: 2}, resp.Report)
		assert.Len(t, resp.View.Items, 2)
		assert.Equal(t, "Hosting", ws.Snapshot().Items[0].Description)
	})

	t.Run("xlsx round trip", func(t *testing.T) {
		router, ws := setupWorkspaceRouter()

		exported, err := spreadsheet.Export(ws.Snapshot())
		require.NoError(t, err)

		doJSON(router, http.MethodDelete, "/api/v1/workspace/items", "")

		body, contentType := multipartBody(t, "Rows.XLSX", exported.Data)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/import", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, ws.Snapshot().Items, 5)
	})

	t.Run("nothing usable leaves rows untouched", func(t *testing.T) {
		router, ws := setupWorkspaceRouter()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/import", bytes.NewBufferString("just,two\n"))
		req.Header.Set("Content-Type", "text/csv")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.False(t, resp.Changed)
		assert.Equal(t, 1, resp.Report.Dropped)
		assert.Len(t, ws.Snapshot().Items, 5)
	})
}

func TestWorkspaceHandler_Export(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		filename    string
	}{
		{app.FormatPDF, pdf.ContentType, "invoice-INV-1.pdf"},
		{app.FormatXLSX, spreadsheet.ContentType, "invoice-INV-1.xlsx"},
		{"bundle", app.BundleContentType, "invoice-INV-1.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			router, _ := setupWorkspaceRouter()

			w := doJSON(router, http.MethodGet, "/api/v1/workspace/export/"+tt.format, "")

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, "attachment; filename="+tt.filename, w.Header().Get("Content-Disposition"))
			assert.NotEmpty(t, w.Body.Bytes())
		})
	}
}

func TestWorkspaceHandler_ExportBundleContents(t *testing.T) {
	router, _ := setupWorkspaceRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/workspace/export/zip", "")
	require.Equal(t, http.StatusOK, w.Code)

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{"invoice-INV-1.pdf", "invoice-INV-1.xlsx"}, names)
}

func TestWorkspaceHandler_ExportUnknownFormat(t *testing.T) {
	router, _ := setupWorkspaceRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/workspace/export/docx", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidation, decodeError(t, w).Error.Code)
}
