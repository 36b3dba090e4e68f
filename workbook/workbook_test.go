package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
)

func newSheet(t *testing.T, name string) sheet.Sheet {
	t.Helper()
	n, err := addr.NewSheetName(name)
	require.NoError(t, err)
	return sheet.New(n, style.NewRegistry())
}

func TestAddSheetUniqueness(t *testing.T) {
	wb := New(false)
	wb, err := wb.AddSheet(newSheet(t, "Sheet1"))
	require.NoError(t, err)

	_, err = wb.AddSheet(newSheet(t, "sheet1"))
	assert.Error(t, err, "sheet names must be unique case-insensitively")
}

func TestValidateRequiresAtLeastOneSheet(t *testing.T) {
	wb := New(false)
	assert.Error(t, wb.Validate())

	wb, err := wb.AddSheet(newSheet(t, "Sheet1"))
	require.NoError(t, err)
	assert.NoError(t, wb.Validate())
}

func TestRemoveSheetReindexes(t *testing.T) {
	wb := New(false)
	wb, _ = wb.AddSheet(newSheet(t, "A"))
	wb, _ = wb.AddSheet(newSheet(t, "B"))
	wb, _ = wb.AddSheet(newSheet(t, "C"))

	wb, err := wb.RemoveSheet("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, wb.SheetNames())

	s, err := wb.SheetAt(1)
	require.NoError(t, err)
	assert.Equal(t, addr.SheetName("C"), s.Name())
}

func TestRenameSheet(t *testing.T) {
	wb := New(false)
	wb, _ = wb.AddSheet(newSheet(t, "Old"))

	newName, err := addr.NewSheetName("New")
	require.NoError(t, err)

	wb, err = wb.RenameSheet("Old", newName)
	require.NoError(t, err)

	_, ok := wb.SheetByName("Old")
	assert.False(t, ok)
	_, ok = wb.SheetByName("new")
	assert.True(t, ok)
}
