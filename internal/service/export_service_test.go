package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
	svc := NewExportService()

	data, err := svc.BuildWorkbook([]Sheet{
		{Name: "מטפלים", Headers: []string{"שם מלא", "סטטוס"}, Rows: [][]interface{}{{"Dana", "פעיל"}}},
		{Name: "מטופלים", Headers: []string{"שם מלא"}},
		{Name: "לידים", Headers: []string{"שם", "טלפון"}, Rows: [][]interface{}{{"Avi", "050"}, {"Rina", "052"}}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"מטפלים", "לידים"}, f.GetSheetList())

	rows, err := f.GetRows("לידים")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"שם", "טלפון"}, {"Avi", "050"}, {"Rina", "052"}}, rows)

	width, err := f.GetColWidth("מטפלים", "B")
	require.NoError(t, err)
	assert.Equal(t, float64(exportColumnWidth), width)
}

func TestBuildWorkbookEmpty(t *testing.T) {
	_, err := NewExportService().BuildWorkbook([]Sheet{{Name: "x", Headers: []string{"a"}}})
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
}
