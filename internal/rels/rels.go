// Package rels decodes an OOXML .rels relationship part into the
// rId → target map the rest of the codec resolves part paths through. The
// ooxml Reader uses it for xl/_rels/workbook.xml.rels; worksheet-level .rels
// parts are not read.
package rels

import (
	"encoding/xml"
	"fmt"
)

type relsDocument struct {
	Entries []relsEntry `xml:"Relationship"`
}

type relsEntry struct {
	RId    string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// Resolve parses a .rels part's raw bytes and indexes it by relationship ID,
// the form Reader.readRels returns; Open looks each sheet's target up in it
// before resolvePartPath turns that target into an in-ZIP path.
func Resolve(data []byte) (map[string]string, error) {
	var doc relsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rels: decode relationship part: %w", err)
	}
	targets := make(map[string]string, len(doc.Entries))
	for _, e := range doc.Entries {
		targets[e.RId] = e.Target
	}
	return targets, nil
}
