package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelens/domain/core"
	"gradelens/domain/dataset"
)

func TestSaveRawTableRoundTrip(t *testing.T) {
	src := dataset.NewRawTable(
		[]string{"student_id", "name", "score"},
		[][]string{{"S1", "Amina", "72.5"}, {"S2", "Brian, Jr", ""}},
	)

	for _, name := range []string{"out.csv", "out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveRawTable(path, src))

			got, err := NewDataReader(path).ReadData()
			require.NoError(t, err)
			assert.Equal(t, src.Headers, got.Headers)
			require.Len(t, got.Rows, 2)
			assert.Equal(t, "72.5", got.Rows[0]["score"])
			assert.Equal(t, "Brian, Jr", got.Rows[1]["name"])
		})
	}
}

func TestSaveRawTableRejectsUnknownExtension(t *testing.T) {
	err := SaveRawTable(filepath.Join(t.TempDir(), "out.ods"), dataset.NewRawTable([]string{"a"}, nil))
	assert.ErrorIs(t, err, core.ErrUnsupportedInput)
}
