package v1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkImport(t *testing.T) {
	app := createTestApp()
	token, _ := registerAndLogin(t, app)

	// Baris yatim pertama menjadi roadmap "General" tersendiri; baris
	// "- Docker basics" dan "Deploy to prod" menempel pada grup aktifnya
	text := strings.Join([]string{
		"Buy a domain",
		"Backend = Learn SQL, Build an API",
		"- Docker basics",
		"Frontend: HTML | CSS | JS",
		"Deploy to prod",
	}, "\n")

	status, result := postJSON(t, app, "/bulk_import", token, map[string]string{
		"bulk_text": text,
	})
	require.Equal(t, 201, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(8), data["tasks"])
	assert.Equal(t, float64(3), data["roadmaps"])
	assert.Contains(t, result["message"], "8 tasks")
	assert.Contains(t, result["message"], "3 roadmaps")

	// Semua hasil import tercermin di dashboard
	status, result = getJSON(t, app, "/dashboard", token)
	require.Equal(t, 200, status)
	dash := result["data"].(map[string]interface{})
	assert.Equal(t, float64(8), dash["total_tasks"])
	assert.Len(t, dash["categories"].([]interface{}), 3)
}

// Baris biasa tanpa grup aktif menjadi roadmap "General" satuan.
func TestBulkImportOrphanLines(t *testing.T) {
	app := createTestApp()
	token, _ := registerAndLogin(t, app)

	status, result := postJSON(t, app, "/bulk_import", token, map[string]string{
		"bulk_text": "Standalone thing\nAnother thing",
	})
	require.Equal(t, 201, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["tasks"])
	assert.Equal(t, float64(2), data["roadmaps"])
}

func TestBulkImportEmptyText(t *testing.T) {
	app := createTestApp()
	token, _ := registerAndLogin(t, app)

	status, result := postJSON(t, app, "/bulk_import", token, map[string]string{
		"bulk_text": "   \n\n  ",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Please enter some content to import", result["message"])
}

// Input yang tidak menghasilkan grup sama sekali ditolak sebagai error
// validasi, bukan import kosong yang "berhasil".
func TestBulkImportNoGroups(t *testing.T) {
	app := createTestApp()
	token, _ := registerAndLogin(t, app)

	status, result := postJSON(t, app, "/bulk_import", token, map[string]string{
		"bulk_text": "= Learn SQL, Build an API",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Nothing to import, check the text format", result["message"])

	// Tidak ada yang tersimpan
	status, result = getJSON(t, app, "/dashboard", token)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), result["data"].(map[string]interface{})["total_tasks"])
}

func TestBulkImportRequiresAuth(t *testing.T) {
	app := createTestApp()

	status, _ := postJSON(t, app, "/bulk_import", "", map[string]string{
		"bulk_text": "Plan = one, two",
	})
	assert.Equal(t, 401, status)
}
