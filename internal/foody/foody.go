// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package foody extracts the restaurant list embedded in a saved Foody
// listing page and writes it as the catalog CSV.
//
// Listing pages carry their data in an inline script:
//
//	var jsonData = {"searchItems": [...]};
//
// Each search item may hold SubItems, which are branches of the same
// restaurant. Branches are flattened into their own rows.
package foody

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samber/lo"

	"github.com/tomtom215/platepicker/internal/logging"
)

// BaseURL prefixes relative links found in the page.
const BaseURL = "https://www.foody.vn"

// ErrJSONDataNotFound is returned when the page has no jsonData script.
var ErrJSONDataNotFound = errors.New("jsonData not found")

// Columns is the CSV header, in order.
var Columns = []string{
	"name",
	"branch_name",
	"address",
	"district",
	"city",
	"avg_rating",
	"total_reviews",
	"has_delivery",
	"has_booking",
	"delivery_url",
	"booking_url",
	"detail_url",
	"branch_url",
	"cuisines",
	"categories",
	"latitude",
	"longitude",
}

var jsonDataPattern = regexp.MustCompile(`(?s)var\s+jsonData\s*=\s*(\{.*?\});`)

// scalar keeps any JSON scalar as text. null stays empty.
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = scalar(str)
		return nil
	}
	*s = scalar(b)
	return nil
}

type named struct {
	Name string `json:"Name"`
}

type item struct {
	Name        string  `json:"Name"`
	BranchName  string  `json:"BranchName"`
	Address     string  `json:"Address"`
	District    string  `json:"District"`
	City        string  `json:"City"`
	AvgRating   scalar  `json:"AvgRating"`
	TotalReview scalar  `json:"TotalReview"`
	HasDelivery scalar  `json:"HasDelivery"`
	HasBooking  scalar  `json:"HasBooking"`
	DeliveryURL string  `json:"DeliveryUrl"`
	BookingURL  string  `json:"BookingUrl"`
	DetailURL   string  `json:"DetailUrl"`
	BranchURL   string  `json:"BranchUrl"`
	Cuisines    []named `json:"Cuisines"`
	Categories  []named `json:"Categories"`
	Latitude    scalar  `json:"Latitude"`
	Longitude   scalar  `json:"Longitude"`
	SubItems    []item  `json:"SubItems"`
}

type page struct {
	SearchItems []item `json:"searchItems"`
}

// Row is one CSV line keyed by column name.
type Row map[string]string

// Values returns the row in Columns order.
func (r Row) Values() []string {
	return lo.Map(Columns, func(c string, _ int) string { return r[c] })
}

// Parse extracts every restaurant and branch from a listing page.
func Parse(html []byte) ([]Row, error) {
	m := jsonDataPattern.FindSubmatch(html)
	if m == nil {
		return nil, ErrJSONDataNotFound
	}
	var p page
	if err := json.Unmarshal(m[1], &p); err != nil {
		return nil, fmt.Errorf("decode jsonData: %w", err)
	}

	rows := make([]Row, 0, len(p.SearchItems))
	for i := range p.SearchItems {
		parent := &p.SearchItems[i]
		rows = append(rows, toRow(parent, ""))
		branch := lo.Ternary(parent.Name != "", parent.Name, parent.BranchName)
		for j := range parent.SubItems {
			rows = append(rows, toRow(&parent.SubItems[j], branch))
		}
	}
	return rows, nil
}

func toRow(it *item, parentBranch string) Row {
	return Row{
		"name":          lo.Ternary(it.Name != "", it.Name, it.BranchName),
		"branch_name":   lo.Ternary(parentBranch != "", parentBranch, it.BranchName),
		"address":       it.Address,
		"district":      it.District,
		"city":          it.City,
		"avg_rating":    floatText(string(it.AvgRating)),
		"total_reviews": string(it.TotalReview),
		"has_delivery":  string(it.HasDelivery),
		"has_booking":   string(it.HasBooking),
		"delivery_url":  absoluteURL(it.DeliveryURL),
		"booking_url":   absoluteURL(it.BookingURL),
		"detail_url":    absoluteURL(it.DetailURL),
		"branch_url":    absoluteURL(it.BranchURL),
		"cuisines":      joinNames(it.Cuisines),
		"categories":    joinNames(it.Categories),
		"latitude":      string(it.Latitude),
		"longitude":     string(it.Longitude),
	}
}

// floatText drops ratings that are not numbers.
func floatText(s string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func absoluteURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return BaseURL + u
	}
	return u
}

func joinNames(ns []named) string {
	names := lo.FilterMap(ns, func(n named, _ int) (string, bool) {
		return n.Name, n.Name != ""
	})
	return strings.Join(names, ", ")
}

// WriteCSV writes the header and rows to w.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Extract reads the page at htmlPath and writes the CSV to outPath,
// creating parent directories. It returns the number of rows written.
func Extract(htmlPath, outPath string) (int, error) {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", htmlPath, err)
	}
	rows, err := Parse(html)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	logging.Info().Int("rows", len(rows)).Str("out", outPath).Msg("Foody listing extracted")
	return len(rows), nil
}
