// Package qoo10 obtiene el ranking de más vendidos del marketplace leyendo su HTML público.
package qoo10

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/width"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/ranking"
)

// MaxItems cantidad de posiciones que publica el ranking.
const MaxItems = 100

const userAgent = "Mozilla/5.0 (compatible; catalogo-api/1.0)"

// Scraper cliente HTTP del ranking.
type Scraper struct {
	baseURL string
	client  *http.Client
}

// NewScraper crea el scraper. timeout <= 0 usa 30s.
func NewScraper(baseURL string, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// Scrape descarga y parsea el ranking de la categoría. Devuelve todos los artículos;
// el filtrado por tipo de envío queda en el caso de uso.
func (s *Scraper) Scrape(ctx context.Context, category string) ([]entity.ItemSnapshot, error) {
	group, ok := ranking.GroupCode(category)
	if !ok {
		return nil, fmt.Errorf("qoo10: categoría no soportada %q", category)
	}
	target, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("qoo10: base url: %w", err)
	}
	if group != "" {
		q := target.Query()
		q.Set("g", group)
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ja,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qoo10: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("qoo10: status %d en %s", resp.StatusCode, target)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("qoo10: charset: %w", err)
	}
	return Parse(body)
}

// Parse extrae los artículos de la lista "ol.col4 > li". Los elementos sin id o sin posición se omiten.
func Parse(r io.Reader) ([]entity.ItemSnapshot, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("qoo10: parse: %w", err)
	}
	list := findFirst(doc, func(n *html.Node) bool { return isElement(n, "ol") && hasClass(n, "col4") })
	if list == nil {
		return []entity.ItemSnapshot{}, nil
	}

	out := make([]entity.ItemSnapshot, 0, MaxItems)
	for li := list.FirstChild; li != nil && len(out) < MaxItems; li = li.NextSibling {
		if !isElement(li, "li") {
			continue
		}
		if item, ok := parseItem(li); ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func parseItem(li *html.Node) (entity.ItemSnapshot, bool) {
	itemID := attr(li, "id")
	rank, err := strconv.Atoi(normalize(text(byClass(li, "rank"))))
	if itemID == "" || err != nil {
		return entity.ItemSnapshot{}, false
	}

	snap := entity.ItemSnapshot{Rank: rank}
	snap.Item.ItemID = itemID

	if ship := byClass(li, "ship_area"); ship != nil {
		snap.Item.ShipInfo = strings.TrimSpace(text(byTag(ship, "dfn")))
	}
	if name := byClass(li, "tt"); name != nil {
		snap.Item.Name = strings.Join(strings.Fields(text(name)), " ")
		snap.Item.Link = attr(name, "href")
	}
	if thumb := byClass(li, "thmb"); thumb != nil {
		if img := byTag(thumb, "img"); img != nil {
			snap.Item.Thumbnail = attr(img, "gd_src")
			if snap.Item.Thumbnail == "" {
				snap.Item.Thumbnail = attr(img, "src")
			}
		}
	}
	if brand := byClass(li, "txt_brand"); brand != nil {
		snap.Item.BrandName = attr(brand, "title")
		snap.Item.BrandLink = attr(brand, "href")
		snap.Item.IsOfficial = byClass(brand, "official") != nil
	}

	snap.Sold = parseCount(text(byClass(li, "sold")))
	snap.ReviewCount = parseCount(text(byClass(li, "review_total_count")))
	snap.OriginalPrice = parseYen(text(byTag(li, "del")))
	snap.SalePrice = parseYen(text(byTag(li, "strong")))
	if coupon := text(byClass(li, "sale_coupon")); coupon != "" {
		if i := strings.Index(coupon, "円"); i >= 0 {
			coupon = coupon[:i]
		}
		snap.MegaPrice = parseYen(coupon)
	}
	return snap, true
}

// parseYen convierte "1,980円" en 1980. nil si no hay número.
func parseYen(s string) *decimal.Decimal {
	s = strings.ReplaceAll(normalize(s), "円", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &d
}

// parseCount extrae el primer entero de textos como "1,234 個販売" o "(56)".
func parseCount(s string) *int64 {
	s = normalize(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == ',' && b.Len() > 0 {
			continue
		}
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// normalize pasa dígitos y signos de ancho completo a ancho normal.
func normalize(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

// ── Recorrido del árbol ───────────────────────────────────────────────────────

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findFirst búsqueda en profundidad sobre los descendientes de n (n incluido).
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func byClass(n *html.Node, class string) *html.Node {
	return findFirst(n, func(x *html.Node) bool { return x.Type == html.ElementNode && hasClass(x, class) })
}

func byTag(n *html.Node, tag string) *html.Node {
	return findFirst(n, func(x *html.Node) bool { return isElement(x, tag) })
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
