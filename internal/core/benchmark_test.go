package core

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

// ============================================================================
// Fixtures
// ============================================================================

// benchCSV builds a shipments export and a matching invoice with n rows each.
// Every tenth shipment key is in spreadsheet scientific notation.
func benchCSV(n int) (shipments, invoice string) {
	var s, inv strings.Builder
	s.WriteString("Order #,Tracking #,Recipient,Service,Ship Date\n")
	inv.WriteString("Tracking ID,Net Charge Amount\n")

	services := []string{"Ground", "Express", "Home Delivery"}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("%d", 700000000000+i)
		shipKey := key
		if i%10 == 0 {
			shipKey = fmt.Sprintf("%.4E", float64(700000000000+i))
		}
		fmt.Fprintf(&s, "%d,%s,Recipient %d,%s,01/%02d/24\n", 1000+i, shipKey, i, services[i%3], i%28+1)
		fmt.Fprintf(&inv, "%s,%d.%02d\n", key, i%50, i%100)
	}
	return s.String(), inv.String()
}

func benchTables(b *testing.B, n int) (Table, Table) {
	b.Helper()
	sCSV, iCSV := benchCSV(n)
	s, err := ParseCSV(strings.NewReader(sCSV))
	if err != nil {
		b.Fatal(err)
	}
	inv, err := ParseCSV(strings.NewReader(iCSV))
	if err != nil {
		b.Fatal(err)
	}
	return s, inv
}

// ============================================================================
// Normalization Benchmarks
// ============================================================================

// BenchmarkNormalizeTracking covers plain keys, padded keys and the
// scientific-notation repair path.
func BenchmarkNormalizeTracking(b *testing.B) {
	testCases := []Value{
		Str("1Z999AA10123456784"),
		Str("  794644790132  "),
		Str("1.5E+11"),
		Str("7.9464E+11"),
		Num(794644790132),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			if _, err := NormalizeTracking(tc); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// BenchmarkParseCSV measures parsing a 10k row export.
func BenchmarkParseCSV(b *testing.B) {
	data, _ := benchCSV(10000)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseCSV(strings.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkMerge measures the left join on 10k rows per side.
func BenchmarkMerge(b *testing.B) {
	s, inv := benchTables(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Merge(s, "Tracking #", inv, "Tracking ID"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRun measures a full run with every filter active.
func BenchmarkRun(b *testing.B) {
	s, inv := benchTables(b, 10000)
	spec := FilterSpec{Recipient: "recipient 1", Service: "Ground", ShipDate: "01/05/24"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(Inputs{Shipments: &s, Invoice: &inv}, spec); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWriteCSV measures exporting a 10k row merged table.
func BenchmarkWriteCSV(b *testing.B) {
	s, inv := benchTables(b, 10000)
	merged, err := Merge(s, "Tracking #", inv, "Tracking ID")
	if err != nil {
		b.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, merged); err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(buf.Len()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteCSV(io.Discard, merged); err != nil {
			b.Fatal(err)
		}
	}
}
