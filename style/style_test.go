package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryInterning(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 1, r.Len())

	bold := Default.WithFont(Font{Name: "Calibri", Size: 11, Bold: true})
	r2, id1 := r.Register(bold)
	assert.Equal(t, 2, r2.Len())
	assert.NotEqual(t, DefaultStyleId, id1)

	r3, id2 := r2.Register(bold)
	assert.Equal(t, id1, id2)
	assert.Equal(t, r2.Len(), r3.Len())

	got, ok := r3.Get(id1)
	assert.True(t, ok)
	assert.Equal(t, bold, got)
}

func TestRegistryImmutableAcrossRegister(t *testing.T) {
	r1 := NewRegistry()
	r2, _ := r1.Register(Default.WithNumFmt(NumFmt{Kind: NumFmtPercent}))
	assert.Equal(t, 1, r1.Len())
	assert.Equal(t, 2, r2.Len())
}

func TestMergeNumFmtRule(t *testing.T) {
	explicit := Default.WithNumFmt(NumFmt{Kind: NumFmtCurrency})
	merged := explicit.MergeNumFmt(NumFmt{Kind: NumFmtPercent})
	assert.Equal(t, NumFmtCurrency, merged.NumFmt.Kind, "explicit format must win over a codec's proposal")

	general := Default
	merged2 := general.MergeNumFmt(NumFmt{Kind: NumFmtDate})
	assert.Equal(t, NumFmtDate, merged2.NumFmt.Kind, "General yields to a proposed format")
}

func TestBuiltInNumFmtRoundTrip(t *testing.T) {
	code, ok := ResolveBuiltInNumFmtID(14)
	assert.True(t, ok)
	assert.Equal(t, "MM-DD-YY", code)

	id, ok := NumFmtIDForCode("0.00%")
	assert.True(t, ok)
	assert.Equal(t, 10, id)

	nf := NumFmtForBuiltIn(22)
	assert.True(t, nf.IsDate())
	assert.Equal(t, NumFmtDateTime, nf.Kind)
}

func TestCustomFormatDateDetection(t *testing.T) {
	nf := Custom(`[Red]"Qty: "0`)
	assert.False(t, nf.IsDate())

	nf2 := Custom("yyyy-mm-dd")
	assert.True(t, nf2.IsDate())
}
