package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seatwise/quote-api/internal/catalog"
	"github.com/seatwise/quote-api/internal/pricing"
)

func TestDefaultCatalogValid(t *testing.T) {
	require.NoError(t, catalog.Validate(catalog.Default()))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	override := `{"tiers":{"tier1":{"price":9900}},"addOns":{"teamPortal":{"price":60000}}}`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(9900), cat.Tiers[pricing.Tier1].Price)
	require.Equal(t, pricing.Money(60000), cat.AddOns[catalog.AddOnTeamPortal].Price)
	// Untouched entries keep their defaults.
	require.Equal(t, pricing.Money(14900), cat.Tiers[pricing.Tier2].Price)
	require.Len(t, cat.VolumeSchedule, 5)
}

func TestLoadMergesPartialEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tiers":{"tier1":{"price":9900}}}`), 0o600))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	// A price-only override must not blank the entry's other fields.
	defaults := catalog.Default()
	require.Equal(t, defaults.Tiers[pricing.Tier1].Name, cat.Tiers[pricing.Tier1].Name)
	require.Equal(t, defaults.Tiers[pricing.Tier1].Description, cat.Tiers[pricing.Tier1].Description)
	require.Equal(t, defaults.AddOns[catalog.AddOnTeamPortal], cat.AddOns[catalog.AddOnTeamPortal])
}

func TestLoadRejectsBrokenCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"volumeSchedule":[{"minSeats":50,"rateBps":2500},{"minSeats":50,"rateBps":3000}]}`), 0o600))

	_, err := catalog.Load(path)
	require.Error(t, err)
}

func TestValidateRejectsIneligibleCourseRate(t *testing.T) {
	cat := catalog.Default()
	cat.CourseRateBps[pricing.Tier3] = 1000
	require.Error(t, catalog.Validate(cat))
}

func TestCatalogHandler(t *testing.T) {
	handler := catalog.Handler{Catalog: catalog.Default(), Currency: "USD"}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Currency string `json:"currency"`
			Tiers    []struct {
				ID    string `json:"id"`
				Price int64  `json:"price"`
			} `json:"tiers"`
			AddOns []struct {
				ID string `json:"id"`
			} `json:"addOns"`
			CourseDiscounts []struct {
				Tier    string `json:"tier"`
				RateBps int    `json:"rateBps"`
			} `json:"courseDiscounts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "USD", body.Data.Currency)
	require.Len(t, body.Data.Tiers, 3)
	require.Equal(t, "tier1", body.Data.Tiers[0].ID)
	require.Equal(t, int64(7500), body.Data.Tiers[0].Price)
	require.Len(t, body.Data.AddOns, 1)
	require.Equal(t, "teamPortal", body.Data.AddOns[0].ID)
	require.Len(t, body.Data.CourseDiscounts, 2)
	require.Equal(t, 3000, body.Data.CourseDiscounts[0].RateBps)
}
