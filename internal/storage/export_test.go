package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
)

func testStores() []catalog.Store {
	return []catalog.Store{
		{
			ID: "R70", Name: "RALPH LAUREN - THE DUBAI MALL", Region: "United Arab Emirates", POSKey: "R70",
			City: "Dubai", SponsorName: "RALPH LAUREN", StoreCategory: "FASHION", Vertical: "Retail",
			CompanyName: "Al Tayer Group", Mall: "The Dubai Mall",
		},
		{
			ID: "G05", Name: "GUCCI - MODA MALL, MANAMA", Region: "Bahrain", POSKey: "G05",
			City: "Manama", SponsorName: "GUCCI", StoreCategory: "FASHION", Vertical: "Luxury",
			CompanyName: "Kering", Mall: "Moda Mall",
		},
		{
			ID: "L01", Name: "MUSE LOYALTY DESK", Region: "Bahrain", POSKey: "L01",
		},
	}
}

func TestWriteJSON_KeyOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testStores()[:1]); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	out := buf.String()
	last := -1
	for _, name := range catalog.FieldNames {
		idx := strings.Index(out, `"`+name+`"`)
		if idx < 0 {
			t.Fatalf("key %q missing from output", name)
		}
		if idx < last {
			t.Errorf("key %q out of order", name)
		}
		last = idx
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("WriteJSON(nil) = %q, want []", got)
	}
}

func TestWriteJSON_Parseable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testStores()); err != nil {
		t.Fatal(err)
	}

	var got []catalog.Store
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 3 || got[2].City != "" {
		t.Errorf("decoded %+v", got)
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, testStores()); err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var ids []string
	for scanner.Scan() {
		var s catalog.Store
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			t.Fatalf("line %q: %v", scanner.Text(), err)
		}
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, ",") != "R70,G05,L01" {
		t.Errorf("ids = %v", ids)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testStores()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(catalog.FieldNames, ",") {
		t.Errorf("header = %v", rows[0])
	}
	// Name containing a comma survives quoting
	if rows[2][1] != "GUCCI - MODA MALL, MANAMA" {
		t.Errorf("rows[2] name = %q", rows[2][1])
	}
}

func TestWrite_Formats(t *testing.T) {
	for _, format := range Formats {
		var buf bytes.Buffer
		if err := Write(&buf, format, testStores()); err != nil {
			t.Errorf("Write(%s) error = %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) wrote nothing", format)
		}
	}

	if err := Write(&bytes.Buffer{}, "xml", testStores()); err == nil {
		t.Error("Write(xml) expected error")
	}
}
