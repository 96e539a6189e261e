package gazefile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazecenter/domain/core"
	"gazecenter/internal/errors"
)

const validRows = `1,2024-05-01,10:00:00.000,0.016,1.5,-2.0,0.1,0.50,0.50,0.50,0.50,0.9,0.8
1,2024-05-01,10:00:00.016,0.032,1.4,-2.1,0.2,0.00,0.00,0.00,0.00,0.7,0.6
2,2024-05-01,10:00:00.033,0.048,1.3,-2.2,0.3,1.00,1.00,1.00,1.00,0.5,0.4
2.0,2024-05-01,10:00:00.050,0.064,1.2,-2.3,0.4,0.40,0.60,0.60,0.40,0.3,0.2
`

func TestParseValidRows(t *testing.T) {
	samples, err := Parse(strings.NewReader(validRows))
	require.NoError(t, err)
	require.Len(t, samples, 4)

	first := samples[0]
	assert.Equal(t, 1, first.Trial)
	assert.Equal(t, "2024-05-01", first.Date)
	assert.Equal(t, "10:00:00.000", first.CoreTime)
	assert.Equal(t, "0.016", first.ExpTime)
	assert.Equal(t, 1.5, first.Pitch)
	assert.Equal(t, -2.0, first.Yaw)
	assert.Equal(t, 0.9, first.RightConf)
	assert.Equal(t, 0.8, first.LeftConf)

	assert.Equal(t, 2, samples[3].Trial, "integral float trial ids are accepted")
	assert.Equal(t, 0.4, samples[3].RightX)
	assert.Equal(t, 0.6, samples[3].RightY)
}

func TestParseEmptyInput(t *testing.T) {
	samples, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestParseRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:  "twelve fields",
			input: "1,2024-05-01,10:00,0.0,1,2,3,0.5,0.5,0.5,0.5,0.9\n",
		},
		{
			name:  "fourteen fields",
			input: "1,2024-05-01,10:00,0.0,1,2,3,0.5,0.5,0.5,0.5,0.9,0.9,7\n",
		},
		{
			name:    "non numeric gaze",
			input:   "1,2024-05-01,10:00,0.0,1,2,3,abc,0.5,0.5,0.5,0.9,0.9\n",
			message: "right_x",
		},
		{
			name:    "fractional trial",
			input:   "1.5,2024-05-01,10:00,0.0,1,2,3,0.5,0.5,0.5,0.5,0.9,0.9\n",
			message: "trial",
		},
		{
			name:    "nan gaze",
			input:   "1,2024-05-01,10:00,0.0,1,2,3,NaN,0.5,0.5,0.5,0.9,0.9\n",
			message: "right_x",
		},
		{
			name:    "infinite confidence",
			input:   "1,2024-05-01,10:00,0.0,1,2,3,0.5,0.5,0.5,0.5,+Inf,0.9\n",
			message: "right_conf",
		},
		{
			name:    "trial out of int range",
			input:   "1e300,2024-05-01,10:00,0.0,1,2,3,0.5,0.5,0.5,0.5,0.9,0.9\n",
			message: "trial",
		},
		{
			name:    "bad row after good rows",
			input:   validRows + "3,2024-05-01,10:00,0.0,1,2,3,0.5,0.5,0.5,0.5,0.9,x\n",
			message: "line 5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, samples)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func writeParticipant(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestParseStripsByteOrderMark(t *testing.T) {
	samples, err := Parse(strings.NewReader("\ufeff" + validRows))
	require.NoError(t, err)
	require.Len(t, samples, 4)
	assert.Equal(t, 1, samples[0].Trial)
}

func TestDirectorySourceListsTxtFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeParticipant(t, dir, "P02.txt", validRows)
	writeParticipant(t, dir, "P01.txt", validRows)
	writeParticipant(t, dir, "notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "P03.txt"), 0o755))

	ids, err := NewDirectorySource(dir).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.ParticipantID{"P01", "P02"}, ids)
}

func TestDirectorySourceMissing(t *testing.T) {
	dir := t.TempDir()
	source := NewDirectorySource(dir)

	_, err := source.Open(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = NewDirectorySource(filepath.Join(dir, "missing")).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = source.Open(context.Background(), "../escape")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestDirectorySourceOpen(t *testing.T) {
	dir := t.TempDir()
	writeParticipant(t, dir, "P01.txt", validRows)

	rc, err := NewDirectorySource(dir).Open(context.Background(), "P01")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, validRows, string(body))
}

func TestParseUploadRemovesTempFile(t *testing.T) {
	dir := t.TempDir()

	samples, err := ParseUpload(dir, []byte(validRows))
	require.NoError(t, err)
	assert.Len(t, samples, 4)

	_, err = ParseUpload(dir, []byte("1,2,3\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files are removed on success and failure")
}

func TestWithTempUploadExposesPayload(t *testing.T) {
	dir := t.TempDir()
	var seen string

	err := WithTempUpload(dir, []byte("payload"), func(path string) error {
		body, err := os.ReadFile(path)
		seen = string(body)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "payload", seen)
}
