package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// Longitudes máximas de cada segmento del SKU.
const (
	categoryCodeLen = 2
	brandCodeLen    = 4
	productCodeLen  = 4
	emptySegment    = "X"
)

// GenerateSKU arma el SKU CAT-BRAN-PROD-OPT1-OPT2 a partir de la jerarquía de la variante.
// CAT y BRAN son los primeros caracteres alfanuméricos del nombre; PROD son las iniciales
// de las palabras del producto; cada OPT es valor+unidad sin espacios. Todo en mayúsculas
// y sin diacríticos.
func GenerateSKU(categoryName, brandName, productName string, options []entity.VariantOption) string {
	parts := []string{
		orEmpty(sanitize(categoryName, categoryCodeLen)),
		orEmpty(sanitize(brandName, brandCodeLen)),
		orEmpty(initials(productName, productCodeLen)),
	}
	for _, opt := range options {
		val := strings.ReplaceAll(fold(opt.Value+opt.Unit), " ", "")
		if val == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(val))
	}
	return strings.Join(parts, "-")
}

// WithSuffix desambigua un SKU repetido: base-2, base-3, ...
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

func sanitize(s string, max int) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToUpper(fold(s)) {
		if n == max {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

func initials(s string, max int) string {
	words := strings.FieldsFunc(strings.ToUpper(fold(s)), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' || r == '.'
	})
	var b strings.Builder
	n := 0
	for _, w := range words {
		if n == max {
			break
		}
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				n++
				break
			}
		}
	}
	return b.String()
}

// fold elimina diacríticos (é -> e) sin tocar otros alfabetos.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func orEmpty(s string) string {
	if s == "" {
		return emptySegment
	}
	return s
}
