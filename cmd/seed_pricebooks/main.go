// seed_pricebooks genera un script SQL idempotente para poblar listas de precios
// a partir de la exportación CSV (ISO-8859-1, separador ';') del sistema de precios.
//
// Uso: go run ./cmd/seed_pricebooks [precios.csv] [salida.sql]
// Por defecto lee precios.csv y escribe en stdout.
//
// Columnas: lista;sucursal;vigente_desde;vigente_hasta;tipo;item;politica;precio_fijo;markup
// tipo es PRODUCTO o SERVICIO; sucursal y vigente_hasta pueden ir vacíos (lista global / abierta).
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// seedNamespace raíz de los UUID deterministas: la misma fila genera siempre el mismo id.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("service-center/price-books"))

const columns = 9

type seedBook struct {
	book  entity.PriceBook
	items []entity.PriceBookItem
}

func main() {
	csvPath := "precios.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	books, err := parseCSV(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		file, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	if err := writeSQL(out, books); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	items := 0
	for _, b := range books {
		items += len(b.items)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d listas, %d ítems\n", len(books), items)
}

// parseCSV agrupa las filas por lista (código + sucursal) y valida cada ítem.
func parseCSV(r io.Reader) ([]*seedBook, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true

	byKey := make(map[string]*seedBook)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "lista") {
			continue // encabezado
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}

		sb, err := bookFor(byKey, rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		item, err := parseItem(sb.book.ID, rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		sb.items = append(sb.items, item)
	}

	books := make([]*seedBook, 0, len(byKey))
	for _, sb := range byKey {
		books = append(books, sb)
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].book.Code != books[j].book.Code {
			return books[i].book.Code < books[j].book.Code
		}
		return books[i].book.ID < books[j].book.ID
	})
	return books, nil
}

func bookFor(byKey map[string]*seedBook, rec []string) (*seedBook, error) {
	code, branch := rec[0], rec[1]
	if code == "" {
		return nil, errors.New("código de lista vacío")
	}
	from, err := time.Parse(time.DateOnly, rec[2])
	if err != nil {
		return nil, fmt.Errorf("vigente_desde %q: %w", rec[2], err)
	}
	var to *time.Time
	if rec[3] != "" {
		t, err := time.Parse(time.DateOnly, rec[3])
		if err != nil {
			return nil, fmt.Errorf("vigente_hasta %q: %w", rec[3], err)
		}
		if !t.After(from) {
			return nil, fmt.Errorf("lista %s: vigente_hasta debe ser posterior a vigente_desde", code)
		}
		to = &t
	}

	key := code + "|" + branch
	if sb, ok := byKey[key]; ok {
		if !sb.book.ValidFrom.Equal(from) || !sameDate(sb.book.ValidTo, to) {
			return nil, fmt.Errorf("lista %s: vigencia distinta entre filas", code)
		}
		return sb, nil
	}
	sb := &seedBook{book: entity.PriceBook{
		ID:        uuid.NewSHA1(seedNamespace, []byte("book:"+key)).String(),
		Code:      code,
		BranchID:  optional(branch),
		ValidFrom: from,
		ValidTo:   to,
	}}
	byKey[key] = sb
	return sb, nil
}

func parseItem(bookID string, rec []string) (entity.PriceBookItem, error) {
	kind, ref := strings.ToUpper(rec[4]), rec[5]
	item := entity.PriceBookItem{
		ID:          uuid.NewSHA1(seedNamespace, []byte("item:"+bookID+"|"+kind+"|"+ref)).String(),
		PriceBookID: bookID,
		PolicyType:  entity.PricingPolicy(strings.ToUpper(rec[6])),
	}
	switch kind {
	case "PRODUCTO":
		item.ProductID = optional(ref)
	case "SERVICIO":
		item.ServiceID = optional(ref)
	default:
		return item, fmt.Errorf("tipo desconocido %q (PRODUCTO o SERVICIO)", rec[4])
	}
	var err error
	if item.FixedPrice, err = parseDecimal(rec[7]); err != nil {
		return item, fmt.Errorf("precio_fijo: %w", err)
	}
	if item.MarkupPercent, err = parseDecimal(rec[8]); err != nil {
		return item, fmt.Errorf("markup: %w", err)
	}
	return item, nil
}

// parseDecimal acepta coma decimal (exportación regional) además del punto.
func parseDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func writeSQL(w io.Writer, books []*seedBook) error {
	var b strings.Builder
	b.WriteString("-- Listas de precios generadas por seed_pricebooks\n")
	b.WriteString("-- Idempotente: los ids son deterministas y se ignoran las filas existentes\n\n")
	for _, sb := range books {
		bk := sb.book
		fmt.Fprintf(&b, "INSERT INTO price_books (id, code, branch_id, valid_from, valid_to)\nVALUES (%s, %s, %s, %s, %s)\nON CONFLICT (id) DO NOTHING;\n",
			quote(bk.ID), quote(bk.Code), quoteOpt(bk.BranchID), quoteTime(&bk.ValidFrom), quoteTime(bk.ValidTo))
		for _, it := range sb.items {
			fmt.Fprintf(&b, "INSERT INTO price_book_items (id, price_book_id, product_id, service_id, policy_type, fixed_price, markup_percent)\nVALUES (%s, %s, %s, %s, %s, %s, %s)\nON CONFLICT (id) DO NOTHING;\n",
				quote(it.ID), quote(it.PriceBookID), quoteOpt(it.ProductID), quoteOpt(it.ServiceID),
				quote(string(it.PolicyType)), numeric(it.FixedPrice), numeric(it.MarkupPercent))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteOpt(s *string) string {
	if s == nil {
		return "NULL"
	}
	return quote(*s)
}

// quoteTime escribe el instante en UTC con zona explícita: TIMESTAMPTZ no depende del TimeZone de la sesión.
func quoteTime(t *time.Time) string {
	if t == nil {
		return "NULL"
	}
	return quote(t.UTC().Format(time.RFC3339))
}

func numeric(d *decimal.Decimal) string {
	if d == nil {
		return "NULL"
	}
	return d.String()
}
