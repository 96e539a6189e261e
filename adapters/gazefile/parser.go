package gazefile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gazecenter/domain/gaze"
	"gazecenter/internal/errors"
)

// Columns is the fixed column order of a participant recording. Files carry no
// header row.
var Columns = []string{
	"trial", "date", "core_time", "exp_time",
	"pitch", "yaw", "roll",
	"right_x", "right_y", "left_x", "left_y",
	"right_conf", "left_conf",
}

// FieldCount is the number of fields every row must have
const FieldCount = 13

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a headerless comma-delimited recording. Any row with the wrong
// number of fields or a non-numeric value in a numeric column fails the whole
// load; rows are never skipped.
func Parse(r io.Reader) ([]gaze.GazeSample, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = FieldCount
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var samples []gaze.GazeSample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("malformed recording: %w", err))
		}

		line, _ := reader.FieldPos(0)
		sample, err := parseRecord(record)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("line %d: %w", line, err))
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func parseRecord(record []string) (gaze.GazeSample, error) {
	trial, err := parseTrial(record[0])
	if err != nil {
		return gaze.GazeSample{}, err
	}

	// Columns 4..12 are all floats
	var nums [FieldCount]float64
	for i := 4; i < FieldCount; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return gaze.GazeSample{}, fmt.Errorf("column %s: %q is not a number", Columns[i], record[i])
		}
		nums[i] = v
	}

	return gaze.GazeSample{
		Trial:     trial,
		Date:      strings.TrimSpace(record[1]),
		CoreTime:  strings.TrimSpace(record[2]),
		ExpTime:   strings.TrimSpace(record[3]),
		Pitch:     nums[4],
		Yaw:       nums[5],
		Roll:      nums[6],
		RightX:    nums[7],
		RightY:    nums[8],
		LeftX:     nums[9],
		LeftY:     nums[10],
		RightConf: nums[11],
		LeftConf:  nums[12],
	}, nil
}

// parseTrial accepts integers and integral floats such as "3.0" that fit in
// an int
func parseTrial(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("column trial: %q is not an integer", raw)
	}
	return int(f), nil
}
