package testkit_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/testkit"
)

func TestNewDB_AppliesSchema(t *testing.T) {
	db := testkit.NewDB(t)

	for _, table := range []string{"users", "roles", "user_roles", "orders", "inventory_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	require.NoError(t, db.Create(&models.InventoryItem{Name: "Box", Quantity: 1}).Error)
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := testkit.NewClock(start)
	c.Advance(30 * time.Second)
	assert.Equal(t, start.Add(30*time.Second), c.Now())
}

func TestDiffJSON_Subset(t *testing.T) {
	exp := map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}}
	act := map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}, "c": true}
	assert.Empty(t, testkit.DiffJSON("", exp, act))

	act["a"] = 2.0
	assert.Len(t, testkit.DiffJSON("", exp, act), 1)
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	scenario := `{
		"name": "health",
		"requestUrl": "/healthz",
		"as": "user",
		"expectedCode": 200,
		"expectedBody": {"status": "ok"},
		"expectedHeaders": {"Content-Type": "application/json"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_health.json"), []byte(scenario), 0o600))

	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","uptime":3}`)) //nolint:errcheck
	})

	testkit.RunDir(t, handler, testkit.Tokens{"user": "tok"}, dir)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestLoadScenario_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x"}`), 0o600))

	_, err := testkit.LoadScenario(path)
	assert.ErrorContains(t, err, "requestUrl is required")
}
