package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// End-to-end Scenarios
// ============================================================================

func mustParse(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return &tbl
}

func TestRun_SingleMatch(t *testing.T) {
	in := Inputs{
		Shipments: mustParse(t, "Tracking,Recipient,Service,Date\n1Z1,Alice,Ground,01/02/24\n"),
		Invoice:   mustParse(t, "Tracking ID,Charge\n1Z1,5.00\n"),
	}

	res, err := Run(in, FilterSpec{})
	require.NoError(t, err)
	require.Equal(t, 1, res.MergedCount)
	assert.Equal(t, "Alice", res.Merged.Value(0, "Recipient").String())
	assert.Equal(t, "5.00", res.Merged.Value(0, "Charge").String())
	assert.Equal(t, JoinKeys{Left: "Tracking", Right: "Tracking ID"}, res.Keys)
	assert.Equal(t, 0, res.Unmatched)

	res, err = Run(in, FilterSpec{Recipient: "ali"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilteredCount)

	res, err = Run(in, FilterSpec{Recipient: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.FilteredCount)
	assert.Equal(t, 1, res.MergedCount)
}

func TestRun_DuplicateInvoiceRows(t *testing.T) {
	in := Inputs{
		Shipments: mustParse(t, "Tracking #,Recipient\n1Z1,Alice\n"),
		Invoice:   mustParse(t, "Tracking ID,Charge\n1Z1,5.00\n1Z1,2.00\n"),
	}

	res, err := Run(in, FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.MergedCount)
	assert.Equal(t, 1, res.ShipmentCount)
	assert.Equal(t, 2, res.InvoiceCount)
}

func TestRun_NoTrackingColumn(t *testing.T) {
	in := Inputs{
		Shipments: mustParse(t, "Ref,Recipient\nA,Alice\n"),
		Invoice:   mustParse(t, "Tracking ID,Charge\n1Z1,5.00\n"),
	}

	res, err := Run(in, FilterSpec{})
	assert.Nil(t, res, "no merged table is produced")

	var cre *ColumnResolutionError
	require.True(t, errors.As(err, &cre))
	assert.Equal(t, []string{"Ref", "Recipient"}, cre.ShipmentColumns)
	assert.Equal(t, []string{"Tracking ID", "Charge"}, cre.InvoiceColumns)
}

func TestRun_MissingUpload(t *testing.T) {
	_, err := Run(Inputs{Shipments: mustParse(t, "Tracking #\n1\n")}, FilterSpec{})

	var mue *MissingUploadError
	require.True(t, errors.As(err, &mue))
	assert.Equal(t, []string{InputInvoice}, mue.Missing)

	_, err = Run(Inputs{}, FilterSpec{})
	require.True(t, errors.As(err, &mue))
	assert.Equal(t, []string{InputShipments, InputInvoice}, mue.Missing)
}

func TestRun_ScientificRepair(t *testing.T) {
	in := Inputs{
		Shipments: mustParse(t, "Tracking #,Recipient\n1.5E+11,Alice\n1Z9,Bob\n"),
		Invoice:   mustParse(t, "Tracking ID,Charge\n150000000000,5.00\n"),
	}

	res, err := Run(in, FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, "150000000000", res.Merged.Value(0, "Tracking #").String())
	assert.Equal(t, "5.00", res.Merged.Value(0, "Charge").String())
	assert.Equal(t, 1, res.Unmatched)
}

func TestRun_NormalizationFailure(t *testing.T) {
	in := Inputs{
		Shipments: mustParse(t, "Tracking #\nBADE+1\n"),
		Invoice:   mustParse(t, "Tracking ID\n1Z1\n"),
	}

	_, err := Run(in, FilterSpec{})

	var ne *NormalizationError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "BADE+1", ne.Failures[0].Raw)
}

func TestRun_ResultFields(t *testing.T) {
	in := Inputs{
		Shipments: mustParse(t, "Tracking #,Recipient,Service,Ship Date\n1Z1,Alice,Ground,01/02/24\n1Z2,Bob,Express,01/03/24\n"),
		Invoice:   mustParse(t, "Tracking ID,Service\n1Z1,GND\n"),
	}

	res, err := Run(in, FilterSpec{Service: "Ground"})
	require.NoError(t, err)

	assert.Equal(t, []string{AllServices, "Express", "Ground"}, res.ServiceOptions)
	assert.Equal(t, FilterColumns{Recipient: "Recipient", Service: "Service", ShipDate: "Ship Date"}, res.FilterColumns)
	assert.Equal(t, FilterSpec{Service: "Ground"}, res.Filters)
	assert.Equal(t, 1, res.FilteredCount)
	assert.Equal(t, "GND", res.Filtered.Value(0, "Service_y").String())
}
