package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t,
		"timestamp,mode,internal_temperature_c,external_temperature_c,internal_temperature_f,external_temperature_f,heat_input_w",
		lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-05-01 22:00:00,night,18,8,"), lines[1])
}

func TestReadCSV_ParsesWrittenTrajectory(t *testing.T) {
	var buf bytes.Buffer
	in := testRecords()
	require.NoError(t, WriteCSV(&buf, in))

	got, err := ReadCSV(&buf, nil)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	assert.True(t, got[3].Timestamp.Equal(in[3].Timestamp))
	assert.Equal(t, in[3].InternalTemperature, got[3].InternalTemperature)
	assert.Equal(t, in[3].Mode, got[3].Mode)
}

func TestReadCSV_BadTimestamp(t *testing.T) {
	data := "timestamp,mode,internal_temperature_c,external_temperature_c,internal_temperature_f,external_temperature_f,heat_input_w\n" +
		"yesterday,night,1,1,1,1,1\n"
	_, err := ReadCSV(strings.NewReader(data), nil)
	assert.Error(t, err)
}
