// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/platepicker/internal/models"
)

const fixtureCSV = `name,branch_name,address,district,city,avg_rating,total_reviews,detail_url,cuisines,categories,latitude,longitude,price_range,restaurant_id
Gà Rán Popeyes,,12 Lê Duẩn,Hải Châu,Đà Nẵng,8.2,120,https://www.foody.vn/da-nang/popeyes-le-duan,Gà rán,Quán ăn,16.07,108.22,30000-80000,501
Mì Quảng Bà Mua,Trưng Nữ Vương,19 Trưng Nữ Vương,Hải Châu,Đà Nẵng,7.9,,https://www.foody.vn/da-nang/mi-quang-ba-mua-2811,Mì Quảng,,16.06,108.21,,
Bún Chả Cá,,,,,,,,,,,,,
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foody_page1.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	rs, err := Load(context.Background(), writeFixture(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rs) != 3 {
		t.Fatalf("got %d rows, want 3", len(rs))
	}

	if rs[0].ID != "501" || rs[0].Name != "Gà Rán Popeyes" || rs[0].AvgRating != "8.2" || rs[0].PriceRange != "30000-80000" {
		t.Errorf("row 0 = %+v", rs[0])
	}
	if rs[1].ID != "2811" {
		t.Errorf("row 1 id = %q, want derived 2811", rs[1].ID)
	}
	if rs[1].TotalReviews != "" || rs[1].Categories != "" {
		t.Errorf("missing cells should be empty: %+v", rs[1])
	}
	if rs[2].ID != "3" {
		t.Errorf("row 2 id = %q, want row number 3", rs[2].ID)
	}
}

func TestLoadIDs(t *testing.T) {
	ids, err := LoadIDs(context.Background(), writeFixture(t), 2)
	if err != nil {
		t.Fatalf("LoadIDs() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"501", "2811"}) {
		t.Errorf("LoadIDs() = %v", ids)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestDeriveID(t *testing.T) {
	tests := []struct {
		url  string
		row  int
		want string
	}{
		{"https://www.foody.vn/da-nang/mi-quang-2811", 1, "2811"},
		{"https://www.foody.vn/da-nang/quan/12345/", 1, "12345"},
		{"https://www.foody.vn/da-nang/quan-an", 7, "7"},
		{"", 9, "9"},
	}
	for _, tt := range tests {
		if got := deriveID(tt.url, tt.row); got != tt.want {
			t.Errorf("deriveID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestContent(t *testing.T) {
	r := &models.Restaurant{
		Name:         "Mì Quảng Bà Mua",
		BranchName:   "Trưng Nữ Vương",
		Address:      "19 Trưng Nữ Vương",
		District:     "Hải Châu",
		City:         "Đà Nẵng",
		AvgRating:    "7.9",
		TotalReviews: "55",
		Cuisines:     "Mì Quảng",
		DetailURL:    "https://www.foody.vn/x",
	}
	want := "Mì Quảng Bà Mua\n" +
		"Branch: Trưng Nữ Vương\n" +
		"Address: 19 Trưng Nữ Vương, Hải Châu, Đà Nẵng\n" +
		"Cuisines: Mì Quảng\n" +
		"Categories: \n" +
		"Rating: 7.9 (55 reviews)\n" +
		"Delivery URL: \n" +
		"Detail URL: https://www.foody.vn/x\n" +
		"Price range: \n" +
		"Opening hours: "
	if got := Content(r); got != want {
		t.Errorf("Content() =\n%q\nwant\n%q", got, want)
	}

	bare := Content(&models.Restaurant{})
	if bare[:len("Address: ")] != "Address: " {
		t.Errorf("empty name and branch should be dropped: %q", bare)
	}
}

func TestDocument(t *testing.T) {
	r := &models.Restaurant{ID: "42", Name: "Phở Hồng", Latitude: "16.05"}
	doc := Document(r)
	if doc.ID != "42" || doc.Metadata[models.MetaLatitude] != "16.05" || doc.Metadata[models.MetaName] != "Phở Hồng" {
		t.Errorf("Document() = %+v", doc)
	}
}
