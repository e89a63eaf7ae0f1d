package inventory

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"nursery-backend/internal/models"
)

// Collision retries before giving up on random suffixes. The timestamp
// fallback is unique by construction, so generation always terminates.
const maxSKURetries = 10

const skuFiller = 'X'

func skuPrefix(itemType models.ItemType) string {
	switch itemType {
	case models.ItemTypeConsumable:
		return "CON-"
	case models.ItemTypeHoney:
		return "HON-"
	default:
		return ""
	}
}

// skuBase takes the first three alphabetic characters of the name, uppercased,
// padding with the filler when the name is short or non-alphabetic.
func skuBase(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteRune(skuFiller)
	}
	return b.String()
}

// GenerateSKU produces a short unique stock code: type prefix, three letters
// from the name, and a random four-digit suffix, regenerated on collision
// against the supplied set.
func GenerateSKU(name string, itemType models.ItemType, existing map[string]struct{}) string {
	prefix := skuPrefix(itemType) + skuBase(name)

	for i := 0; i < maxSKURetries; i++ {
		candidate := prefix + strconv.Itoa(1000+rand.IntN(9000))
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
