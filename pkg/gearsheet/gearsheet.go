// Package gearsheet reads and writes gear lists as XLSX workbooks.
//
// Layout: one sheet, a header row, then one gear item per row with the
// columns listed in Headers. Tags are joined with ", ".
package gearsheet

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Gear"

var Headers = []string{
	"Name", "Category", "Brand", "Weight (g)", "Price (TWD)",
	"Buy Link", "Link Name", "Description", "Image URL", "Tags",
}

const (
	colName = iota
	colCategory
	colBrand
	colWeight
	colPrice
	colBuyLink
	colLinkName
	colDescription
	colImageURL
	colTags
)

type Row struct {
	Name        string
	Category    string
	Brand       string
	WeightG     *float64
	PriceTWD    *float64
	BuyLink     string
	LinkName    string
	Description string
	ImageURL    string
	Tags        []string
}

// Write renders rows into a new workbook
func Write(rows []Row) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			row.Name, row.Category, row.Brand,
			optionalNumber(row.WeightG), optionalNumber(row.PriceTWD),
			row.BuyLink, row.LinkName, row.Description, row.ImageURL,
			strings.Join(row.Tags, ", "),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf, nil
}

// Read parses the first sheet of a workbook. Rows without a name are skipped.
func Read(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := []Row{}
	for i, record := range records {
		if i == 0 {
			continue
		}

		name := column(record, colName)
		if name == "" {
			continue
		}

		weight, err := parseNumber(column(record, colWeight))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid weight: %w", i+1, err)
		}
		price, err := parseNumber(column(record, colPrice))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price: %w", i+1, err)
		}

		rows = append(rows, Row{
			Name:        name,
			Category:    column(record, colCategory),
			Brand:       column(record, colBrand),
			WeightG:     weight,
			PriceTWD:    price,
			BuyLink:     column(record, colBuyLink),
			LinkName:    column(record, colLinkName),
			Description: column(record, colDescription),
			ImageURL:    column(record, colImageURL),
			Tags:        splitTags(column(record, colTags)),
		})
	}
	return rows, nil
}

func column(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func optionalNumber(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func parseNumber(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
