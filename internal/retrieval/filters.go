// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package retrieval

import (
	"math"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/platepicker/internal/models"
)

// EarthRadiusKM is the mean Earth radius used by Haversine.
const EarthRadiusKM = 6371.0

// cuisineAliases widens a requested tag to the Vietnamese and English
// spellings found in the catalog.
var cuisineAliases = map[string][]string{
	"fried chicken": {"ga ran", "fried chicken", "chicken"},
	"chicken":       {"ga", "ga ran", "chicken"},
	"korean":        {"han quoc", "korean"},
	"bbq":           {"barbecue", "nuong", "bbq"},
}

// Haversine returns the great circle distance in km.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Fold lowercases s and strips diacritics so "Gà Rán" matches "ga ran".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.NewReplacer("đ", "d", "Đ", "d").Replace(out)
}

// ExpandCuisine returns the requested tags followed by their aliases.
func ExpandCuisine(requested []string) []string {
	out := make([]string, 0, len(requested))
	for _, c := range requested {
		out = append(out, c)
		out = append(out, cuisineAliases[strings.ToLower(c)]...)
	}
	return out
}

// PassesCuisine reports whether any requested token is a substring of the
// restaurant cuisines, categories, name or branch. No request passes.
func PassesCuisine(meta map[string]string, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	fields := append(lowerList(meta[models.MetaCuisines]), lowerList(meta[models.MetaCategories])...)
	fields = append(fields, meta[models.MetaName], meta[models.MetaBranchName])
	fields = lo.Map(fields, func(f string, _ int) string { return Fold(f) })

	tokens := lo.Map(ExpandCuisine(requested), func(t string, _ int) string { return Fold(t) })
	return lo.SomeBy(tokens, func(tok string) bool {
		return lo.SomeBy(fields, func(f string) bool { return strings.Contains(f, tok) })
	})
}

// PassesRating keeps restaurants rated at least min. Unparseable ratings pass.
func PassesRating(meta map[string]string, min *float64) bool {
	if min == nil {
		return true
	}
	r, ok := models.ParseFloat(meta[models.MetaAvgRating])
	if !ok {
		return true
	}
	return r >= *min
}

// PassesDistance keeps restaurants within limit km of the user. Missing
// coordinates on either side pass.
func PassesDistance(meta map[string]string, limit *float64, user models.Location) bool {
	if limit == nil {
		return true
	}
	d, ok := distanceTo(meta, user)
	if !ok {
		return true
	}
	return d <= *limit
}

// PassesSpecial is a pass-through: the catalog carries no amenity flags.
func PassesSpecial(_ map[string]string, _ []string) bool {
	return true
}

func distanceTo(meta map[string]string, user models.Location) (float64, bool) {
	if !user.Known() {
		return 0, false
	}
	lat, okLat := models.ParseFloat(meta[models.MetaLatitude])
	lng, okLng := models.ParseFloat(meta[models.MetaLongitude])
	if !okLat || !okLng {
		return 0, false
	}
	return Haversine(*user.Lat, *user.Lng, lat, lng), true
}

func lowerList(s string) []string {
	return lo.Map(models.SplitList(s), func(v string, _ int) string { return strings.ToLower(v) })
}
