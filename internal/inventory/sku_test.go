package inventory

import (
	"strconv"
	"strings"
	"testing"

	"nursery-backend/internal/models"
)

func TestGenerateSKUShape(t *testing.T) {
	cases := []struct {
		name     string
		itemName string
		itemType models.ItemType
		prefix   string
	}{
		{"plants have no type prefix", "Avocado Seedling", models.ItemTypePlant, "AVO"},
		{"consumables get CON-", "Poly Pots", models.ItemTypeConsumable, "CON-POL"},
		{"honey gets HON-", "Wildflower Honey", models.ItemTypeHoney, "HON-WIL"},
		{"short names pad with X", "Ox", models.ItemTypePlant, "OXX"},
		{"non-alphabetic names pad with X", "2024 #7", models.ItemTypePlant, "XXX"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sku := GenerateSKU(tc.itemName, tc.itemType, map[string]struct{}{})
			if !strings.HasPrefix(sku, tc.prefix) {
				t.Fatalf("GenerateSKU(%q) = %q, expected prefix %q", tc.itemName, sku, tc.prefix)
			}
			suffix := strings.TrimPrefix(sku, tc.prefix)
			if len(suffix) != 4 {
				t.Fatalf("GenerateSKU(%q) = %q, expected a four-digit suffix", tc.itemName, sku)
			}
			n, err := strconv.Atoi(suffix)
			if err != nil || n < 1000 || n > 9999 {
				t.Fatalf("GenerateSKU(%q) = %q, suffix %q is not in 1000..9999", tc.itemName, sku, suffix)
			}
		})
	}
}

func TestGenerateSKUNeverCollides(t *testing.T) {
	existing := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		sku := GenerateSKU("Avocado Seedling", models.ItemTypePlant, existing)
		if _, taken := existing[sku]; taken {
			t.Fatalf("generation %d produced duplicate SKU %q", i, sku)
		}
		existing[sku] = struct{}{}
	}
}

func TestGenerateSKUTimestampFallback(t *testing.T) {
	// Every random suffix is taken, so generation must fall through to the
	// timestamp form instead of looping forever.
	existing := map[string]struct{}{}
	for n := 1000; n <= 9999; n++ {
		existing["AVO"+strconv.Itoa(n)] = struct{}{}
	}

	sku := GenerateSKU("Avocado Seedling", models.ItemTypePlant, existing)
	if _, taken := existing[sku]; taken {
		t.Fatalf("fallback SKU %q collides with the existing set", sku)
	}
	if !strings.HasPrefix(sku, "AVO") || len(sku) <= 7 {
		t.Fatalf("fallback SKU %q does not look like a timestamped code", sku)
	}
}
