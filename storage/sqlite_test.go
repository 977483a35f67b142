package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"phone-sales/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleListing(title, brand, price, sales string) *models.Listing {
	return &models.Listing{
		Image:             "无",
		Title:             title,
		Brand:             brand,
		Price:             price,
		SalesText:         sales + "+人付款",
		Sales:             sales,
		ShopName:          "测试旗舰店",
		CommentsCountText: "100+",
		CommentsCount:     "100",
		Star:              "4.8",
	}
}

func TestInsertAndFetchAll(t *testing.T) {
	s := setupStore(t)

	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5999", "1000")))
	require.NoError(t, s.InsertListing(sampleListing("小米14", "Xiaomi", "3999", "2000")))

	all, err := s.FetchAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "华为 Mate 60", all[0].Title)
	require.Equal(t, "Xiaomi", all[1].Brand)
}

func TestSearchEmptyFilterReturnsEverything(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5999", "1000")))
	require.NoError(t, s.InsertListing(sampleListing("小米14", "Xiaomi", "3999", "2000")))

	all, err := s.FetchAll()
	require.NoError(t, err)

	got, err := s.Search(models.ListingFilter{})
	require.NoError(t, err)
	require.Equal(t, all, got)
}

func TestSearchPriceRangeInclusive(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("A", "Other", "999.5", "10")))
	require.NoError(t, s.InsertListing(sampleListing("B", "Other", "2000", "10")))
	require.NoError(t, s.InsertListing(sampleListing("C", "Other", "3500", "10")))

	min, max := 999.5, 2000.0
	got, err := s.Search(models.ListingFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Title)
	require.Equal(t, "B", got[1].Title)
}

func TestSearchCombinesCriteriaWithAnd(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5999", "1000")))
	require.NoError(t, s.InsertListing(sampleListing("华为 nova 12", "Huawei", "2999", "500")))
	require.NoError(t, s.InsertListing(sampleListing("小米14", "Xiaomi", "3999", "2000")))

	max := 3000.0
	got, err := s.Search(models.ListingFilter{Title: "华为", MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "华为 nova 12", got[0].Title)
}

func TestUpdateByTitleKeepsRowCount(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5999", "1000")))
	require.NoError(t, s.InsertListing(sampleListing("小米14", "Xiaomi", "3999", "2000")))

	updated := sampleListing("华为 Mate 60", "Huawei", "5499", "1500")
	n, err := s.UpdateByTitle("华为 Mate 60", updated)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	all, err := s.FetchAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "5499", all[0].Price)
	require.Equal(t, "3999", all[1].Price)
}

// Titles are not unique; delete removes every row carrying the key.
func TestDeleteByTitleRemovesAllDuplicates(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5999", "1000")))
	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5899", "900")))
	require.NoError(t, s.InsertListing(sampleListing("小米14", "Xiaomi", "3999", "2000")))

	n, err := s.DeleteByTitle("华为 Mate 60")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	all, err := s.FetchAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "小米14", all[0].Title)
}

func TestAuthenticate(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Register("alice", "secret"))

	ok, err := s.Authenticate("alice", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Authenticate("alice", "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Authenticate("nobody", "secret")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSeededAdminRow(t *testing.T) {
	s := setupStore(t)
	ok, err := s.Authenticate("admin", "admin")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterDuplicateRejectedWithoutMutation(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Register("bob", "pw1"))

	before, err := s.UserCount()
	require.NoError(t, err)

	err = s.Register("bob", "pw2")
	require.ErrorIs(t, err, ErrUserExists)

	after, err := s.UserCount()
	require.NoError(t, err)
	require.Equal(t, before, after)

	// original password untouched
	ok, err := s.Authenticate("bob", "pw1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSalesByBrand(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("华为 Mate 60", "Huawei", "5999", "10")))
	require.NoError(t, s.InsertListing(sampleListing("小米14", "Xiaomi", "3999", "20")))
	require.NoError(t, s.InsertListing(sampleListing("iPhone 15", "Other", "6999", "30")))

	groups, err := s.SalesByBrand()
	require.NoError(t, err)
	require.Len(t, groups, 3)

	sums := map[string]int64{}
	for _, g := range groups {
		sums[g.Brand] = g.Sales
	}
	require.EqualValues(t, 10, sums["Huawei"])
	require.EqualValues(t, 20, sums["Xiaomi"])
	require.EqualValues(t, 30, sums["Other"])
}

func TestSalesByPriceBand(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("A", "Other", "500", "5")))
	require.NoError(t, s.InsertListing(sampleListing("B", "Other", "1500", "7")))
	require.NoError(t, s.InsertListing(sampleListing("C", "Other", "9999", "9")))

	bands, err := s.SalesByPriceBand()
	require.NoError(t, err)
	require.Len(t, bands, 6)
	require.Equal(t, "0-1000", bands[0].Label)
	require.EqualValues(t, 5, bands[0].Sales)
	require.EqualValues(t, 7, bands[1].Sales)
	require.EqualValues(t, 0, bands[2].Sales)
	require.EqualValues(t, 9, bands[5].Sales)
}

func TestPriceSalesPointsSortedByPrice(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.InsertListing(sampleListing("B", "Other", "3999", "20")))
	require.NoError(t, s.InsertListing(sampleListing("A", "Other", "1999", "10")))

	points, err := s.PriceSalesPoints()
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, 1999.0, points[0].Price)
	require.EqualValues(t, 10, points[0].Sales)
	require.Equal(t, 3999.0, points[1].Price)
}
