package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shipmentsFixture() Table {
	return NewTable(
		[]string{"Tracking #", "Recipient", "Service", "Ship Date"},
		[]Row{
			{Str("1Z1"), Str("Alice"), Str("Ground"), Str("01/02/24")},
			{Str("1Z2"), Str("Bob"), Str("Express"), Str("01/03/24")},
			{Str("1.5E+11"), Str("Carol"), Str("Ground"), Str("01/02/24")},
			{Missing(), Str("Dan"), Str("Ground"), Str("01/04/24")},
		},
	)
}

func invoiceFixture() Table {
	return NewTable(
		[]string{"Tracking ID", "Charge", "Service"},
		[]Row{
			{Str(" 1Z1 "), Str("5.00"), Str("GND")},
			{Str("150000000000"), Str("7.25"), Str("GND")},
			{Missing(), Str("9.99"), Str("GND")},
		},
	)
}

func TestMerge_LeftJoin(t *testing.T) {
	merged, err := Merge(shipmentsFixture(), "Tracking #", invoiceFixture(), "Tracking ID")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Tracking #", "Recipient", "Service", "Ship Date", "Tracking ID", "Charge", "Service_y"},
		merged.Columns)
	require.Equal(t, 4, merged.Len(), "every shipment row appears once")

	assert.Equal(t, "5.00", merged.Value(0, "Charge").String())
	assert.Equal(t, "1Z1", merged.Value(0, "Tracking ID").String(), "right key is normalized")
	assert.Equal(t, "GND", merged.Value(0, "Service_y").String())
	assert.Equal(t, "Ground", merged.Value(0, "Service").String(), "left column keeps its name")

	assert.True(t, merged.Value(1, "Charge").IsMissing(), "unmatched row has missing right columns")
	assert.True(t, merged.Value(1, "Tracking ID").IsMissing())

	assert.Equal(t, "150000000000", merged.Value(2, "Tracking #").String(), "left key is repaired")
	assert.Equal(t, "7.25", merged.Value(2, "Charge").String())

	assert.Equal(t, "9.99", merged.Value(3, "Charge").String(), "missing keys join each other")
	assert.True(t, merged.Value(3, "Tracking #").IsMissing())
	assert.True(t, merged.Value(3, "Tracking ID").IsMissing())
}

func TestMerge_MissingKeys(t *testing.T) {
	left := NewTable([]string{"Tracking #", "Recipient"}, []Row{
		{Missing(), Str("Dan")},
		{Str("  "), Str("Eve")},
		{Str("1Z1"), Str("Alice")},
	})
	right := NewTable([]string{"Tracking ID", "Charge"}, []Row{
		{Missing(), Str("9.99")},
		{Str("1Z1"), Str("5.00")},
		{Missing(), Str("1.25")},
	})

	merged, unmatched, err := mergeTables(left, "Tracking #", right, "Tracking ID")
	require.NoError(t, err)

	assert.Equal(t, 0, unmatched)
	assert.Equal(t, [][]string{
		{"", "Dan", "", "9.99"},
		{"", "Dan", "", "1.25"},
		{"", "Eve", "", "9.99"},
		{"", "Eve", "", "1.25"},
		{"1Z1", "Alice", "1Z1", "5.00"},
	}, merged.Strings(), "blank and missing keys normalize alike and fan out in invoice order")
}

func TestMerge_FanOut(t *testing.T) {
	left := NewTable([]string{"Tracking #", "Recipient"}, []Row{
		{Str("1Z1"), Str("Alice")},
		{Str("1Z2"), Str("Bob")},
	})
	right := NewTable([]string{"Tracking ID", "Charge"}, []Row{
		{Str("1Z1"), Str("5.00")},
		{Str("1Z1"), Str("1.50")},
	})

	merged, err := Merge(left, "Tracking #", right, "Tracking ID")
	require.NoError(t, err)

	require.Equal(t, 3, merged.Len())
	assert.Equal(t, []string{"5.00", "1.50", ""}, []string{
		merged.Value(0, "Charge").String(),
		merged.Value(1, "Charge").String(),
		merged.Value(2, "Charge").String(),
	}, "matches follow invoice order")
	assert.Equal(t, "Alice", merged.Value(1, "Recipient").String())
}

func TestMerge_SharedKeyName(t *testing.T) {
	left := NewTable([]string{"Tracking", "Note"}, []Row{{Str("A1"), Str("left")}})
	right := NewTable([]string{"Note", "Tracking"}, []Row{{Str("right"), Str("A1")}})

	merged, err := Merge(left, "Tracking", right, "Tracking")
	require.NoError(t, err)

	assert.Equal(t, []string{"Tracking", "Note", "Note_y"}, merged.Columns)
	assert.Equal(t, "right", merged.Value(0, "Note_y").String())
}

func TestMerge_SuffixRepeatsUntilUnique(t *testing.T) {
	left := NewTable([]string{"Key", "Charge", "Charge_y"}, []Row{{Str("1"), Str("a"), Str("b")}})
	right := NewTable([]string{"Tracking ID", "Charge"}, []Row{{Str("1"), Str("c")}})

	merged, err := Merge(left, "Key", right, "Tracking ID")
	require.NoError(t, err)

	assert.Equal(t, []string{"Key", "Charge", "Charge_y", "Tracking ID", "Charge_y_y"}, merged.Columns)
	assert.Equal(t, "c", merged.Value(0, "Charge_y_y").String())
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	left := shipmentsFixture()
	right := invoiceFixture()
	leftBefore, rightBefore := left.Clone(), right.Clone()

	_, err := Merge(left, "Tracking #", right, "Tracking ID")
	require.NoError(t, err)

	assert.True(t, left.Equal(leftBefore))
	assert.True(t, right.Equal(rightBefore))
}

func TestMerge_NormalizationError(t *testing.T) {
	left := NewTable([]string{"Tracking #"}, []Row{{Str("1Z1")}, {Str("BADE+1")}})
	right := NewTable([]string{"Tracking ID"}, []Row{{Str("NOPEE+2")}})

	_, err := Merge(left, "Tracking #", right, "Tracking ID")

	var ne *NormalizationError
	require.True(t, errors.As(err, &ne))
	require.Len(t, ne.Failures, 2, "both sides are reported")
	assert.Equal(t, SideShipments, ne.Failures[0].Side)
	assert.Equal(t, 2, ne.Failures[0].Row)
	assert.Equal(t, SideInvoice, ne.Failures[1].Side)
	assert.Contains(t, err.Error(), "cannot normalize tracking number in 2 row(s)")
}

func TestMerge_UnknownKey(t *testing.T) {
	_, err := Merge(shipmentsFixture(), "Nope", invoiceFixture(), "Tracking ID")
	assert.EqualError(t, err, `column not found: "Nope" in shipments`)

	_, err = Merge(shipmentsFixture(), "Tracking #", invoiceFixture(), "Nope")
	assert.EqualError(t, err, `column not found: "Nope" in invoice`)
}

func TestNormalizationError_Truncates(t *testing.T) {
	var failures []NormalizationFailure
	for i := 1; i <= 7; i++ {
		failures = append(failures, NormalizationFailure{Side: SideInvoice, Column: "Tracking ID", Row: i, Raw: "XE+1", Reason: "bad"})
	}
	err := &NormalizationError{Failures: failures}

	assert.Contains(t, err.Error(), "in 7 row(s)")
	assert.Contains(t, err.Error(), "; and 2 more")
	assert.NotContains(t, err.Error(), "row 6 ")
}
