// Package catalog loads bulk product files into the store. Files are
// gzipped CSV with columns: sku, name, description, price, quantity,
// image_url. They are fetched from S3 when enabled, with a local
// filesystem fallback.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"clothier/internal/model"

	"github.com/shopspring/decimal"
)

const recordFields = 6

// ParseRecords reads CSV product records from r. A header row starting
// with "sku" is skipped. Blank image_url columns become nil.
func ParseRecords(r io.Reader) ([]model.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = recordFields
	reader.TrimLeadingSpace = true

	var products []model.Product
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalogue record: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(record[0], "sku") {
			continue
		}

		product, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("invalid catalogue record on line %d: %w", line, err)
		}
		products = append(products, *product)
	}

	return products, nil
}

func parseRecord(record []string) (*model.Product, error) {
	sku := strings.TrimSpace(record[0])
	if sku == "" {
		return nil, fmt.Errorf("sku is required")
	}

	name := strings.TrimSpace(record[1])
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", record[3], err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q: %w", record[4], err)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	product := &model.Product{
		ID:              sku,
		Name:            name,
		Description:     strings.TrimSpace(record[2]),
		Price:           price,
		InitialQuantity: quantity,
		CreatedAt:       time.Now().UTC(),
	}

	if imageURL := strings.TrimSpace(record[5]); imageURL != "" {
		product.ImageURL = &imageURL
	}

	return product, nil
}
