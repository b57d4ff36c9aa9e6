package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/schema"
	"fraudrisk/pkg/serrors"
)

// Raw corpus columns, matched case-insensitively.
const (
	rawURLColumn   = "url"
	rawLabelColumn = "label"
)

// ReadRaw parses the raw labeled corpus: a CSV with a header containing at
// least a URL and a Label column, in any order. Extra columns are ignored.
func ReadRaw(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, serrors.With(ErrMalformedFile, "raw corpus is empty")
	}
	if err != nil {
		return nil, serrors.Wrap(ErrMalformedFile, err, "could not read raw corpus header")
	}

	urlIdx, labelIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case rawURLColumn:
			urlIdx = i
		case rawLabelColumn:
			labelIdx = i
		}
	}
	// the header is never echoed: the file may not be a corpus at all
	switch {
	case urlIdx < 0 && labelIdx < 0:
		return nil, serrors.With(ErrMalformedFile, "raw corpus header lacks URL and Label columns")
	case urlIdx < 0:
		return nil, serrors.With(ErrMalformedFile, "raw corpus header lacks a URL column")
	case labelIdx < 0:
		return nil, serrors.With(ErrMalformedFile, "raw corpus header lacks a Label column")
	}

	var out []RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, serrors.Wrap(ErrMalformedFile, err, "could not read raw corpus")
		}
		if urlIdx >= len(row) || labelIdx >= len(row) {
			// short row: keep it so the builder drops and reports it
			out = append(out, RawRecord{})

			continue
		}
		out = append(out, RawRecord{URL: row[urlIdx], Label: row[labelIdx]})
	}
}

// WriteDataset writes ds in the interchange format: the schema columns in
// order, one row per record.
func WriteDataset(w io.Writer, ds domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Columns()); err != nil {
		return err
	}

	row := make([]string, 0, schema.Size+2)
	for _, rec := range ds.Records() {
		row = row[:0]
		row = append(row, rec.Domain)
		for _, v := range rec.Features {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row, strconv.Itoa(int(rec.IsFraudulent)))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadDataset parses an interchange file. The header must equal the schema
// columns exactly and every row must conform to the schema.
func ReadDataset(r io.Reader) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(schema.Columns())

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Dataset{}, serrors.With(ErrMalformedFile, "dataset is empty")
	}
	if err != nil {
		return domain.Dataset{}, serrors.Wrap(ErrMalformedFile, err, "could not read dataset header")
	}
	if err := schema.Check(header); err != nil {
		return domain.Dataset{}, err
	}

	var records []domain.LabeledRecord
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, serrors.Wrap(ErrMalformedFile, err, "could not read dataset")
		}

		rec, err := parseRow(row)
		if err != nil {
			return domain.Dataset{}, serrors.Wrap(ErrMalformedFile, err, "line %d", line)
		}
		if _, dup := seen[rec.Domain]; dup {
			return domain.Dataset{}, serrors.With(ErrMalformedFile, "line %d: duplicate domain %q", line, rec.Domain)
		}
		seen[rec.Domain] = struct{}{}
		records = append(records, rec)
	}

	return domain.NewDataset(records), nil
}

func parseRow(row []string) (domain.LabeledRecord, error) {
	rec := domain.LabeledRecord{
		Domain:   row[0],
		Features: make(schema.FeatureVector, schema.Size),
	}
	names := schema.Names()
	for i := range schema.Size {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return rec, schema.Mismatch(names[i], schema.ReasonOutOfDomain, "a number", strconv.Quote(row[i+1]))
		}
		rec.Features[i] = v
	}
	if err := schema.Validate(rec.Features); err != nil {
		return rec, err
	}

	switch label := strings.TrimSpace(row[schema.Size+1]); label {
	case "0":
		rec.IsFraudulent = domain.LabelSafe
	case "1":
		rec.IsFraudulent = domain.LabelFraudulent
	default:
		return rec, schema.Mismatch(schema.LabelColumn, schema.ReasonOutOfDomain, "0 or 1", strconv.Quote(label))
	}

	return rec, nil
}
