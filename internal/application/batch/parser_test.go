package batch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

var userColumns = Columns{
	Required: []string{"email", "password"},
	Optional: []string{"displayName", "phoneNumber"},
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseCSVKeepsSourceRowNumbers(t *testing.T) {
	t.Parallel()

	data := "email,password,displayName\n" +
		"a@example.com,secret1,Ana\n" +
		",,\n" +
		" b@example.com , secret2 ,\n"

	rows, err := Parse(domain.Upload{FileName: "users.csv", Data: []byte(data)}, userColumns)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "a@example.com", rows[0].Get("email"))
	assert.Equal(t, "Ana", rows[0].Get("displayName"))
	assert.Equal(t, "", rows[0].Get("phoneNumber"))

	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "b@example.com", rows[1].Get("email"))
	assert.Equal(t, "secret2", rows[1].Get("password"))
}

func TestParseCSVNumbersRecordsAcrossMultilineCells(t *testing.T) {
	t.Parallel()

	data := "email,password,displayName\n" +
		"a@example.com,secret1,\"Ana\nMaría\"\n" +
		"b@example.com,secret2,Bob\n"

	rows, err := Parse(domain.Upload{FileName: "users.csv", Data: []byte(data)}, userColumns)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "Ana\nMaría", rows[0].Get("displayName"))
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, "b@example.com", rows[1].Get("email"))
}

func TestParseCSVSemicolonWithBOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("email;password\na@example.com;secret1\n")...)

	rows, err := Parse(domain.Upload{FileName: "users.csv", Data: data}, userColumns)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "secret1", rows[0].Get("password"))
}

func TestParseWorkbook(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{
		{"email", "password", "phoneNumber"},
		{"a@example.com", "secret1", "5512345678"},
		{},
		{"b@example.com", "secret2"},
	})

	rows, err := Parse(domain.Upload{FileName: "users.xlsx", Data: data}, userColumns)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "5512345678", rows[0].Get("phoneNumber"))
	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "", rows[1].Get("phoneNumber"))
}

func TestParseWorkbookWithoutExtension(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{
		{"email", "password"},
		{"a@example.com", "secret1"},
	})

	rows, err := Parse(domain.Upload{FileName: "upload", Data: data}, userColumns)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestParseMissingRequiredColumns(t *testing.T) {
	t.Parallel()

	contractColumns := Columns{
		Required: []string{"userEmail", "contractType", "investmentAmount", "startDate", "expirationDate"},
	}
	data := "userEmail,contractType,startDate,expirationDate\nx@example.com,Plazo fijo,2025-01-01,2025-12-31\n"

	_, err := Parse(domain.Upload{FileName: "contracts.csv", Data: []byte(data)}, contractColumns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParse))

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, []string{"investmentAmount"}, parseErr.MissingColumns)
	assert.Contains(t, err.Error(), "investmentAmount")
}

func TestParseRejectsEmptyFiles(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no content":  "",
		"header only": "email,password\n",
		"blank rows":  "email,password\n,\n , \n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(domain.Upload{FileName: "users.csv", Data: []byte(data)}, userColumns)
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Parse(domain.Upload{FileName: "legacy.xls", Data: []byte{0xD0, 0xCF}}, userColumns)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestParseCorruptWorkbook(t *testing.T) {
	t.Parallel()

	_, err := Parse(domain.Upload{FileName: "broken.xlsx", Data: []byte("not a zip")}, userColumns)
	assert.ErrorIs(t, err, domain.ErrParse)
}
