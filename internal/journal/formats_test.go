package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatsForPath(t *testing.T) {
	f := DefaultFormats()

	assert.Equal(t, "json", f.ForPath("batch.JSON").Format())
	assert.Equal(t, "csv", f.ForPath("/tmp/batch.csv").Format())
	assert.Equal(t, "csv", f.ForPath("batch.txt").Format(), "unknown extensions fall back to CSV")
	assert.Equal(t, "csv", f.ForPath("-").Format())
	assert.Nil(t, f.Get("xml"))
}

func TestFormatsRegisterDuplicatePanics(t *testing.T) {
	f := DefaultFormats()
	assert.Panics(t, func() { f.Register(JSONDecoder{}) })
}

func TestDecodersReadSameBatch(t *testing.T) {
	csvBatch := Header + "\n2024-04-01,Cash,Capital,1000,owner investment\n"
	jsonBatch := `[{"date":"2024-04-01","ac_debited":"Cash","ac_credited":"Capital","amount":"1000","description":"owner investment"}]`

	fromCSV, err := CSVDecoder{}.Decode(strings.NewReader(csvBatch))
	require.NoError(t, err)
	fromJSON, err := JSONDecoder{}.Decode(strings.NewReader(jsonBatch))
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromJSON)
}
