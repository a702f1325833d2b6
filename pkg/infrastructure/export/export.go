// Package export converts result sets to CSV, JSON and XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/xuri/excelize/v2"
)

// Columns is the tabular layout shared by CSV and XLSX
var Columns = []string{
	"domain", "extension", "price", "trend_score", "brandability_score",
	"market_value", "keyword", "found_at", "roi_potential",
}

func row(r entity.DomainResult) []string {
	return []string{
		r.Domain,
		r.Extension,
		strconv.FormatFloat(r.Price, 'f', -1, 64),
		strconv.Itoa(r.TrendScore),
		strconv.Itoa(r.BrandabilityScore),
		strconv.Itoa(r.MarketValue),
		r.Keyword,
		r.FoundAt.Format(time.RFC3339Nano),
		strconv.FormatFloat(r.ROIPotential, 'f', -1, 64),
	}
}

// WriteCSV writes a header and one row per result
func WriteCSV(w io.Writer, results []entity.DomainResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced. Columns are located by header name.
func ReadCSV(r io.Reader) ([]entity.DomainResult, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return []entity.DomainResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", name)
		}
	}

	results := []entity.DomainResult{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		result, err := parseRow(func(name string) string { return record[index[name]] })
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func parseRow(field func(string) string) (entity.DomainResult, error) {
	var r entity.DomainResult
	var err error

	r.Domain = field("domain")
	r.Extension = field("extension")
	r.Keyword = field("keyword")
	if r.Price, err = strconv.ParseFloat(field("price"), 64); err != nil {
		return r, fmt.Errorf("price: %w", err)
	}
	if r.TrendScore, err = strconv.Atoi(field("trend_score")); err != nil {
		return r, fmt.Errorf("trend_score: %w", err)
	}
	if r.BrandabilityScore, err = strconv.Atoi(field("brandability_score")); err != nil {
		return r, fmt.Errorf("brandability_score: %w", err)
	}
	if r.MarketValue, err = strconv.Atoi(field("market_value")); err != nil {
		return r, fmt.Errorf("market_value: %w", err)
	}
	if r.FoundAt, err = time.Parse(time.RFC3339Nano, field("found_at")); err != nil {
		return r, fmt.Errorf("found_at: %w", err)
	}
	if r.ROIPotential, err = strconv.ParseFloat(field("roi_potential"), 64); err != nil {
		return r, fmt.Errorf("roi_potential: %w", err)
	}
	return r, nil
}

// WriteJSON writes the results as an indented JSON array
func WriteJSON(w io.Writer, results []entity.DomainResult) error {
	if results == nil {
		results = []entity.DomainResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// ReadJSON parses what WriteJSON produced
func ReadJSON(r io.Reader) ([]entity.DomainResult, error) {
	var results []entity.DomainResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode json export: %w", err)
	}
	return results, nil
}

const (
	domainsSheet    = "Domains"
	extensionsSheet = "Extensions"
)

// WriteXLSX writes a workbook with a results sheet and a per-extension analysis sheet
func WriteXLSX(w io.Writer, results []entity.DomainResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", domainsSheet); err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(domainsSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.Domain, r.Extension, r.Price, r.TrendScore, r.BrandabilityScore,
			r.MarketValue, r.Keyword, r.FoundAt.Format(time.RFC3339), r.ROIPotential,
		}
		if err := f.SetSheetRow(domainsSheet, cell, &values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(extensionsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(extensionsSheet, "A1", &[]any{"extension", "count", "avg_price", "avg_trend_score", "avg_roi"}); err != nil {
		return err
	}
	for i, ext := range ExtensionAnalysis(results) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(extensionsSheet, cell, &[]any{ext.Extension, ext.Count, ext.AvgPrice, ext.AvgTrendScore, ext.AvgROI}); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// ExtensionStats are per-extension averages over a result set
type ExtensionStats struct {
	Extension     string
	Count         int
	AvgPrice      float64
	AvgTrendScore float64
	AvgROI        float64
}

// ExtensionAnalysis groups results by extension, most frequent first
func ExtensionAnalysis(results []entity.DomainResult) []ExtensionStats {
	byExt := make(map[string]*ExtensionStats)
	for _, r := range results {
		key := entity.ExtensionKey(r.Extension)
		s, ok := byExt[key]
		if !ok {
			s = &ExtensionStats{Extension: key}
			byExt[key] = s
		}
		s.Count++
		s.AvgPrice += r.Price
		s.AvgTrendScore += float64(r.TrendScore)
		s.AvgROI += r.ROIPotential
	}

	out := make([]ExtensionStats, 0, len(byExt))
	for _, s := range byExt {
		n := float64(s.Count)
		s.AvgPrice /= n
		s.AvgTrendScore /= n
		s.AvgROI /= n
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}
