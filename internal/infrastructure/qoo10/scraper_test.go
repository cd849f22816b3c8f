package qoo10

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<!DOCTYPE html>
<html><head><meta charset="utf-8"></head><body>
<ol class="col4 best">
  <li id="g_1088366333">
    <span class="rank">1</span>
    <div class="thmb"><img gd_src="https://img.test/1.jpg" src="blank.gif"></div>
    <a class="txt_brand" title="Innisfree" href="https://shop.test/innisfree"><span class="official">公式</span></a>
    <a class="tt" href="https://item.test/1">Green Tea
      Seed Serum</a>
    <div class="prc"><del>3,000円</del><strong>2,400円</strong></div>
    <div class="sale_coupon">2,100円 メガ割</div>
    <span class="sold">1,234 個販売</span>
    <span class="review_total_count">(56)</span>
    <div class="ship_area"><dfn>Oversea Shipping</dfn></div>
  </li>
  <li id="g_2">
    <span class="rank">２</span>
    <div class="thmb"><img src="https://img.test/2.jpg"></div>
    <a class="tt" href="https://item.test/2">Domestic item</a>
    <div class="prc"><strong>980円</strong></div>
    <div class="ship_area"><dfn>国内配送</dfn></div>
  </li>
  <li><span class="rank">x</span></li>
</ol>
</body></html>`

func TestParse_ExtraeCampos(t *testing.T) {
	items, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, items, 2, "el li sin id se omite")

	first := items[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "g_1088366333", first.Item.ItemID)
	assert.Equal(t, "Green Tea Seed Serum", first.Item.Name)
	assert.Equal(t, "https://item.test/1", first.Item.Link)
	assert.Equal(t, "https://img.test/1.jpg", first.Item.Thumbnail)
	assert.Equal(t, "Innisfree", first.Item.BrandName)
	assert.True(t, first.Item.IsOfficial)
	assert.Equal(t, "Oversea Shipping", first.Item.ShipInfo)
	require.NotNil(t, first.OriginalPrice)
	assert.Equal(t, "3000", first.OriginalPrice.String())
	assert.Equal(t, "2400", first.SalePrice.String())
	assert.Equal(t, "2100", first.MegaPrice.String())
	assert.Equal(t, int64(1234), *first.Sold)
	assert.Equal(t, int64(56), *first.ReviewCount)

	second := items[1]
	assert.Equal(t, 2, second.Rank, "dígitos de ancho completo")
	assert.Equal(t, "https://img.test/2.jpg", second.Item.Thumbnail)
	assert.Nil(t, second.OriginalPrice)
	assert.Nil(t, second.MegaPrice)
	assert.Nil(t, second.Sold)
	assert.False(t, second.Item.IsOfficial)
}

func TestParse_SinLista(t *testing.T) {
	items, err := Parse(strings.NewReader("<html><body><p>mantenimiento</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScrape_UsaGrupoDeCategoria(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("g")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	items, err := NewScraper(srv.URL+"/gmkt.inc/BestSellers/", 0).Scrape(context.Background(), "beauty")
	require.NoError(t, err)
	assert.Equal(t, "2", gotQuery)
	assert.Len(t, items, 2)
}

func TestScrape_Errores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, 0)
	_, err := s.Scrape(context.Background(), "beauty")
	assert.ErrorContains(t, err, "503")

	_, err = s.Scrape(context.Background(), "garden")
	assert.ErrorContains(t, err, "categoría")
}
