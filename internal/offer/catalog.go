// Package offer holds the closed set of promotional offers the shop runs.
// A Catalog is built once at startup and only read afterwards.
package offer

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed offers.yaml
var defaultOffers []byte

type Offer struct {
	Code         string `yaml:"code"`
	Name         string `yaml:"name"`
	Value        string `yaml:"value"`
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
	ValidUntil   string `yaml:"valid_until"`
}

type Catalog struct {
	offers map[string]Offer
}

type catalogFile struct {
	Offers []Offer `yaml:"offers"`
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultOffers))
	if err != nil {
		panic(fmt.Sprintf("offer: embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from path, or returns Default when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir catálogo de ofertas: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("invalid offer catalog: %w", err)
	}
	if len(file.Offers) == 0 {
		return nil, fmt.Errorf("offer catalog is empty")
	}

	offers := make(map[string]Offer, len(file.Offers))
	for _, o := range file.Offers {
		o.Code = strings.TrimSpace(o.Code)
		if o.Code == "" {
			return nil, fmt.Errorf("offer without code: %q", o.Name)
		}
		if o.Name == "" || o.Value == "" {
			return nil, fmt.Errorf("offer %s: name and value are required", o.Code)
		}
		if _, dup := offers[o.Code]; dup {
			return nil, fmt.Errorf("duplicate offer code %s", o.Code)
		}
		offers[o.Code] = o
	}

	return &Catalog{offers: offers}, nil
}

func (c *Catalog) Lookup(code string) (Offer, bool) {
	o, ok := c.offers[code]
	return o, ok
}

func (c *Catalog) Has(code string) bool {
	_, ok := c.offers[code]
	return ok
}

// Codes returns the offer codes in lexical order.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.offers))
	for code := range c.offers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// BookingURL appends the offer code to the booking base URL, escaped with
// the same rules as JavaScript's encodeURIComponent.
func BookingURL(base, code string) string {
	return base + escapeURIComponent(code)
}

// escapeURIComponent percent-encodes every UTF-8 byte except the unreserved
// set A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func escapeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isURIComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
