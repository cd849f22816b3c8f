package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRenderSnapshot_GeneraPDF(t *testing.T) {
	sold := int64(1234)
	snap := &entity.RankingSnapshot{
		ID:       "s1",
		Category: "beauty",
		TakenAt:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Items: []entity.ItemSnapshot{
			{
				Rank:          1,
				Item:          entity.RankingItem{Name: "Green Tea Seed Serum", BrandName: "Innisfree", IsOfficial: true},
				OriginalPrice: dec("3000"), SalePrice: dec("2400"), DiscountRate: dec("20"),
				Sold: &sold,
			},
			{Rank: 2, Item: entity.RankingItem{Name: "Sin precios"}},
		},
	}

	for _, source := range []string{"", "https://www.qoo10.jp/gmkt.inc/BestSellers/?g=2"} {
		out, err := NewRankingReportRenderer(source).RenderSnapshot(context.Background(), snap)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	}
}

func TestRenderSnapshot_Nil(t *testing.T) {
	_, err := NewRankingReportRenderer("").RenderSnapshot(context.Background(), nil)
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	r := NewRankingReportRenderer("")
	assert.Equal(t, "¥1,980", r.yen(dec("1980")))
	assert.Equal(t, "-", r.yen(nil))
	assert.Equal(t, "12.5%", percent(dec("12.5")))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "corto", truncate("corto", 60))
}
