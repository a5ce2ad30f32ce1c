package storage

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// Key returns the cache key for a recipe scheduled in a mode. Any change to
// the recipe content, the mode, or the salt (an engine fingerprint) yields a
// different key.
func Key(recipe *domain.RecipeInput, mode domain.Mode, salt string) string {
	data, err := json.Marshal(recipe)
	if err != nil {
		// RecipeInput holds only plain data; fall back to identity.
		data = []byte(recipe.ID + "\x00" + recipe.Name)
	}
	h := xxhash.New()
	h.Write(data)
	h.WriteString("\x00" + mode.String() + "\x00" + salt)
	return "schedule:" + strconv.FormatUint(h.Sum64(), 16)
}
