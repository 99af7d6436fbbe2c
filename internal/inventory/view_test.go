package inventory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	return []Product{
		{ID: "1", Name: "Apple", Barcode: "123456789"},
		{ID: "2", Name: "Banana", Barcode: "987654321"},
		{ID: "3", Name: "Pineapple", Barcode: "456123789"},
	}
}

func Test_Filter(t *testing.T) {
	testCases := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{
			name:      "empty query matches everything",
			query:     "",
			wantNames: []string{"Apple", "Banana", "Pineapple"},
		},
		{
			name:      "name match is case-insensitive",
			query:     "aPpLe",
			wantNames: []string{"Apple", "Pineapple"},
		},
		{
			name:      "barcode substring match",
			query:     "4321",
			wantNames: []string{"Banana"},
		},
		{
			name:      "no match yields empty slice",
			query:     "zzz",
			wantNames: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			products := sampleProducts()

			// when
			got := Filter(products, tc.query)

			// then
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.wantNames, names)
		})
	}
}

func Test_Filter_MatchesSaleEntries(t *testing.T) {
	// given
	log := []SaleEntry{
		{ID: 1, Name: "Apple", Barcode: "123456789"},
		{ID: 2, Name: "Banana", Barcode: "987654321"},
	}

	// when
	got := Filter(log, "ban")

	// then
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func Test_Page(t *testing.T) {
	// given: 25 items, so three pages of 10/10/5
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	testCases := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst int
	}{
		{name: "first page is full", page: 1, wantLen: 10, wantFirst: 0},
		{name: "middle page is full", page: 2, wantLen: 10, wantFirst: 10},
		{name: "last page is partial", page: 3, wantLen: 5, wantFirst: 20},
		{name: "page past the end is empty", page: 4, wantLen: 0},
		{name: "page zero is empty", page: 0, wantLen: 0},
		{name: "negative page is empty", page: -1, wantLen: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			got := Page(items, tc.page)

			// then
			require.Len(t, got, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantFirst, got[0])
			}
		})
	}
}

func Test_Page_ExactMultiple(t *testing.T) {
	// given: exactly two full pages
	items := make([]string, 20)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}

	// when / then
	assert.Len(t, Page(items, 2), 10)
	assert.Empty(t, Page(items, 3))
}

func Test_Summarize(t *testing.T) {
	// given
	products := sampleProducts()
	log := []SaleEntry{
		{ID: 3, Name: "Apple", Barcode: "123456789"},
		{ID: 2, Name: "Apple", Barcode: "123456789"},
		{ID: 1, Name: "Banana", Barcode: "987654321"},
	}

	// when
	rows := Summarize(products, log)

	// then: one row per product, in collection order
	require.Len(t, rows, 3)
	assert.Equal(t, SummaryRow{Name: "Apple", Barcode: "123456789", TotalSold: 2}, rows[0])
	assert.Equal(t, SummaryRow{Name: "Banana", Barcode: "987654321", TotalSold: 1}, rows[1])
	assert.Equal(t, SummaryRow{Name: "Pineapple", Barcode: "456123789", TotalSold: 0}, rows[2])
}

func Test_Summarize_SharedBarcodeReportsCombinedCount(t *testing.T) {
	// given: two products behind one barcode
	products := []Product{
		{ID: "1", Name: "Milk", Barcode: "111"},
		{ID: "2", Name: "Oat Milk", Barcode: "111"},
	}
	log := []SaleEntry{
		{ID: 1, Name: "Milk", Barcode: "111"},
		{ID: 2, Name: "Milk", Barcode: "111"},
	}

	// when
	rows := Summarize(products, log)

	// then: both rows carry the combined count for the barcode
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].TotalSold)
	assert.Equal(t, 2, rows[1].TotalSold)
}

func Test_Summarize_EmptyLog(t *testing.T) {
	// given / when
	rows := Summarize(sampleProducts(), nil)

	// then
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Zero(t, row.TotalSold)
	}
}
