package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/models"
)

const utf8BOM = "\ufeff"

// CSVSource reads the published listings export. Columns are matched by
// header name; unknown columns are ignored and empty cells are absent.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Load(ctx context.Context) ([]models.RawListing, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, apperrors.NewDataSourceError(s.Name(), err)
	}
	defer f.Close()

	listings, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, apperrors.NewDataSourceError(s.Name(), err)
	}
	return listings, nil
}

// ReadCSV decodes listings from r.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.RawListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"price_km", "size_m2", "location"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var out []models.RawListing
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := csvRow{cols: cols, rec: rec}
		l := models.RawListing{
			URL:            row.text("url"),
			Title:          row.text("title"),
			Description:    row.text("description"),
			PriceKM:        row.float("price_km"),
			Condition:      row.text("condition"),
			ListingType:    row.text("listing_type"),
			PropertyType:   row.text("property_type"),
			Rooms:          row.text("rooms"),
			SizeM2:         row.float("size_m2"),
			Furnished:      row.text("furnished"),
			Floor:          row.text("floor"),
			HeatingType:    row.text("heating_type"),
			Location:       row.text("location"),
			Address:        row.text("address"),
			Bathrooms:      row.text("bathrooms"),
			YearBuilt:      row.text("year_built"),
			HasBalcony:     row.flag("has_balcony"),
			HasGarage:      row.flag("has_garage"),
			HasParking:     row.flag("has_parking"),
			HasElevator:    row.flag("has_elevator"),
			IsRegistered:   row.flag("is_registered"),
			HasArmoredDoor: row.flag("has_armored_door"),
		}
		if id := row.float("id"); id != nil {
			l.ID = int64(*id)
		}
		out = append(out, l)
	}
	return out, nil
}

type csvRow struct {
	cols map[string]int
	rec  []string
}

func (r csvRow) text(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r csvRow) float(col string) *float64 {
	s := r.text(col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (r csvRow) flag(col string) bool {
	v, err := strconv.ParseBool(r.text(col))
	if err != nil {
		return r.text(col) == "1.0"
	}
	return v
}
