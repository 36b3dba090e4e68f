// Package ooxml implements the streaming OOXML (.xlsx) codec: a ZIP
// container holding the workbook/worksheet/styles/sharedStrings XML parts,
// written with a SAX-style push writer for worksheet data and read back
// with a pull parser that never materializes a whole sheet in memory.
//
// The push-writer pattern (Open/Empty/Text/Close/Flush over a stream) is
// grounded on github.com/midbel/codecs/xml, the same dependency the
// retrieved oxml-writer reference uses for its worksheet stream; small
// single-shot parts ([Content_Types].xml, the .rels files, workbook.xml,
// styles.xml) are encoded in one call with encoding/xml, matching that same
// reference's split between streamed and whole-document parts.
package ooxml

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

// CompressionMode selects how ZIP entries are stored.
type CompressionMode int

const (
	// CompressDeflate compresses every part with klauspost/compress's
	// faster flate implementation (the default).
	CompressDeflate CompressionMode = iota
	// CompressStored disables compression; parts other than worksheets
	// (see createSheet) are stored verbatim. Opt
	// in when write latency matters more than output size.
	CompressStored
)

// zipWriter wraps archive/zip.Writer, registering klauspost/compress as the
// Deflate implementation for faster writes than compress/flate.
type zipWriter struct {
	zw   *zip.Writer
	mode CompressionMode
}

func newZipWriter(w io.Writer, mode CompressionMode) *zipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &zipWriter{zw: zw, mode: mode}
}

// create opens a new ZIP entry at name for streaming writes, honoring the
// configured CompressionMode.
func (z *zipWriter) create(name string) (io.Writer, error) {
	method := zip.Deflate
	if z.mode == CompressStored {
		method = zip.Store
	}
	return z.zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
}

// createSheet opens a worksheet entry, always Deflated regardless of
// CompressionMode: worksheet data dominates package size, so spec.md §4.4.1
// carves it out of the Stored opt-out.
func (z *zipWriter) createSheet(name string) (io.Writer, error) {
	return z.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
}

func (z *zipWriter) close() error {
	return z.zw.Close()
}
