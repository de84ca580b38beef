// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package catalog

import (
	"strings"

	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/vectorstore"
)

// Content renders the embedding text for r, one field per line. The branch
// line appears only when a branch is set and an empty name is dropped.
func Content(r *models.Restaurant) string {
	lines := []string{
		r.Name,
		"",
		"Address: " + r.Address + ", " + r.District + ", " + r.City,
		"Cuisines: " + r.Cuisines,
		"Categories: " + r.Categories,
		"Rating: " + r.AvgRating + " (" + r.TotalReviews + " reviews)",
		"Delivery URL: " + r.DeliveryURL,
		"Detail URL: " + r.DetailURL,
		"Price range: " + r.PriceRange,
		"Opening hours: " + r.OpeningHours,
	}
	if r.BranchName != "" {
		lines[1] = "Branch: " + r.BranchName
	}

	kept := lines[:0]
	for _, l := range lines {
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// Document builds the vector store document for r.
func Document(r *models.Restaurant) vectorstore.Document {
	return vectorstore.Document{
		ID:       r.ID,
		Content:  Content(r),
		Metadata: r.Metadata(),
	}
}
