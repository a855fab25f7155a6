package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

func titles(items []ProductListItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestListFiltersAndSorting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.user(t, 0, 0)
	other := f.user(t, 0, 0)
	groupID := f.group(t, userID, "Promo")

	red := f.request("Red Shirt")
	red.SKU = "SHIRT-RED"
	red.Stock = 0
	red.GroupIDs = []uuid.UUID{groupID}
	red.Status = string(enums.ProductStatusPublished)
	f.create(t, userID, red)

	blue := f.request("blue shirt")
	blue.SKU = "SHIRT-BLUE"
	blue.Stock = 5
	blue.PresaleEnabled = true
	f.create(t, userID, blue)

	hat := f.request("Hat 100%")
	hat.Stock = 7
	hat.WholesaleEnabled = true
	hatDTO := f.create(t, userID, hat)

	f.create(t, other, f.request("Other Shirt"))

	cases := []struct {
		name  string
		input ListProductsInput
		want  []string
	}{
		{"title search is case-insensitive", ListProductsInput{Search: "SHIRT", SortBy: "title", SortOrder: "asc"}, []string{"Red Shirt", "blue shirt"}},
		{"literal percent", ListProductsInput{Search: "100%"}, []string{"Hat 100%"}},
		{"sku search", ListProductsInput{Search: "RED", SearchType: "sku"}, []string{"Red Shirt"}},
		{"id search", ListProductsInput{Search: hatDTO.ID.String(), SearchType: "id"}, []string{"Hat 100%"}},
		{"status", ListProductsInput{Status: "published"}, []string{"Red Shirt"}},
		{"all status", ListProductsInput{Status: "all", SortBy: "stock", SortOrder: "desc"}, []string{"Hat 100%", "blue shirt", "Red Shirt"}},
		{"soldout", ListProductsInput{FilterType: "soldout"}, []string{"Red Shirt"}},
		{"presale", ListProductsInput{FilterType: "presale"}, []string{"blue shirt"}},
		{"wholesale", ListProductsInput{FilterType: "wholesale"}, []string{"Hat 100%"}},
		{"group", ListProductsInput{GroupID: groupID.String()}, []string{"Red Shirt"}},
		{"category", ListProductsInput{CategoryID: f.category.ID.String(), SortBy: "stock", SortOrder: "asc"}, []string{"Red Shirt", "blue shirt", "Hat 100%"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.UserID = userID
			page, err := f.svc.ListProducts(ctx, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(page.Items))
			assert.EqualValues(t, len(tc.want), page.Total)
		})
	}
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, 0, 0)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		f.create(t, userID, f.request(title))
	}

	page, err := f.svc.ListProducts(context.Background(), ListProductsInput{UserID: userID, Page: 3, PageSize: 2, SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, titles(page.Items))
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 2, page.PageSize)
}

func TestListRejectsUnknownParameters(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, 0, 0)

	for _, input := range []ListProductsInput{
		{SortBy: "password_hash"},
		{SortOrder: "sideways"},
		{Status: "archived"},
		{SearchType: "brand"},
		{FilterType: "cheap"},
		{CategoryID: "not-a-uuid"},
		{GroupID: "123"},
		{Search: "abc", SearchType: "id"},
		{PageSize: 101},
	} {
		input.UserID = userID
		_, err := f.svc.ListProducts(context.Background(), input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %+v", input)
	}
}
