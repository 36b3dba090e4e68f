package ooxml

import (
	"archive/zip"
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// partBytes extracts one ZIP entry's raw bytes from a written package, so
// attribute order can be asserted against the literal XML instead of a
// round-tripped struct (which would hide reordering bugs).
func partBytes(t *testing.T, archive []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		return buf.Bytes()
	}
	t.Fatalf("part %q not found in archive", name)
	return nil
}

// attrsOf returns the attribute names, in document order, of the first
// element matching tag. It matches on a tag-name boundary (whitespace, "/"
// or ">" immediately after the name) so a short tag like "c" never matches
// inside a longer one like "cols".
func attrsOf(t *testing.T, xmlBytes []byte, tag string) []string {
	t.Helper()
	openRe := regexp.MustCompile(`<` + regexp.QuoteMeta(tag) + `[\s/>]`)
	loc := openRe.FindIndex(xmlBytes)
	require.NotNilf(t, loc, "element %q not found", tag)
	end := bytes.IndexByte(xmlBytes[loc[0]:], '>')
	require.NotEqualf(t, -1, end, "element %q has no closing >", tag)
	body := xmlBytes[loc[0] : loc[0]+end]

	attrRe := regexp.MustCompile(`([\w:.-]+)="`)
	var names []string
	for _, am := range attrRe.FindAllSubmatch(body, -1) {
		names = append(names, string(am[1]))
	}
	return names
}

func isSorted(names []string) bool {
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			return false
		}
	}
	return true
}

// TestWriteEmitsLexicographicAttributeOrder guards spec.md §5's "Attribute
// ordering within any emitted XML element is lexicographic" contract across
// every static part, not just the elements a sheet happens to populate.
func TestWriteEmitsLexicographicAttributeOrder(t *testing.T) {
	wb := buildTestWorkbook(t)

	var buf bytes.Buffer
	require.NoError(t, Write(wb, &buf, DefaultWriterConfig))
	archive := buf.Bytes()

	cases := []struct {
		part string
		tag  string
	}{
		{"xl/workbook.xml", "sheet"},
		{"_rels/.rels", "Relationship"},
		{"xl/_rels/workbook.xml.rels", "Relationship"},
		{"[Content_Types].xml", "Default"},
		{"[Content_Types].xml", "Override"},
		{"xl/sharedStrings.xml", "sst"},
		{"xl/styles.xml", "xf"},
		{"xl/worksheets/sheet1.xml", "c"},
		{"docProps/core.xml", "cp:coreProperties"},
	}
	for _, tc := range cases {
		part := partBytes(t, archive, tc.part)
		names := attrsOf(t, part, tc.tag)
		assert.Truef(t, isSorted(names), "%s <%s>: attributes %v not lexicographic", tc.part, tc.tag, names)
	}
}
