package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []string
		wantRows   []domain.Row
		wantErr    string
	}{
		{
			name:       "header and rows",
			input:      "Country_Region,Confirmed\nUS,10\nItaly,20\n",
			wantHeader: []string{"Country_Region", "Confirmed"},
			wantRows: []domain.Row{
				{"Country_Region": "US", "Confirmed": "10"},
				{"Country_Region": "Italy", "Confirmed": "20"},
			},
		},
		{
			name:       "byte order mark stripped from first header",
			input:      "\ufeffProvince/State,Country/Region,Confirmed\n,Italy,5\n",
			wantHeader: []string{"Province/State", "Country/Region", "Confirmed"},
			wantRows: []domain.Row{
				{"Province/State": "", "Country/Region": "Italy", "Confirmed": "5"},
			},
		},
		{
			name:       "quoted field with comma",
			input:      "Admin2,Combined_Key\nPasco,\"Pasco, Florida, US\"\n",
			wantHeader: []string{"Admin2", "Combined_Key"},
			wantRows: []domain.Row{
				{"Admin2": "Pasco", "Combined_Key": "Pasco, Florida, US"},
			},
		},
		{
			name:       "header only",
			input:      "Country_Region,Confirmed\n",
			wantHeader: []string{"Country_Region", "Confirmed"},
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty file",
		},
		{
			name:    "ragged row",
			input:   "Country_Region,Confirmed\nUS,10,extra\n",
			wantErr: "wrong number of fields",
		},
		{
			name:    "duplicate header",
			input:   "Confirmed,Confirmed\n1,2\n",
			wantErr: "duplicate header column",
		},
		{
			name:    "blank header",
			input:   "Country_Region, \nUS,1\n",
			wantErr: "header column 2 is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, snapshot.Header)
			if diff := cmp.Diff(tt.wantRows, snapshot.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	file := writeReport(t, dir, "03-22-2020.csv", csvContent(modernHeader,
		modernRow("Pasco", "Florida", "US", 10, 1)))

	snapshot, err := ParseFile(file)
	require.NoError(t, err)

	assert.Equal(t, file.Path, snapshot.Path)
	assert.True(t, snapshot.Date.Equal(mustDate(t, "03-22-2020")))
	require.Len(t, snapshot.Rows, 1)
	v, ok := snapshot.Rows[0].Value("Admin2")
	assert.True(t, ok)
	assert.Equal(t, "Pasco", v)
	assert.True(t, snapshot.HasColumn("Confirmed"))
}

func TestParseFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(domain.DailyFile{Path: filepath.Join(dir, "01-01-2020.csv")})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindParse, apperrors.KindOf(err))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "03-22-2020.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2,3\n"), 0644))

		_, err := ParseFile(domain.DailyFile{Path: path})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrParse)
		assert.Contains(t, err.Error(), path)
	})
}

func TestLoadSnapshots(t *testing.T) {
	dir := t.TempDir()
	files := pascoDataset(t, dir,
		[]string{"03-22-2020", "03-23-2020", "03-24-2020"},
		[]int{1, 2, 3})

	t.Run("keeps order", func(t *testing.T) {
		snapshots, err := LoadSnapshots(context.Background(), files, discardLogger())
		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		for i, s := range snapshots {
			assert.Equal(t, files[i].Path, s.Path)
		}
	})

	t.Run("one bad file aborts", func(t *testing.T) {
		bad := append([]domain.DailyFile{}, files...)
		bad = append(bad, domain.DailyFile{Path: filepath.Join(dir, "03-25-2020.csv"), Name: "03-25-2020.csv"})

		_, err := LoadSnapshots(context.Background(), bad, discardLogger())
		assert.Equal(t, apperrors.KindParse, apperrors.KindOf(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := LoadSnapshots(ctx, files, discardLogger())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
