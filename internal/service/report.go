package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"careerai/internal/domain"
)

const ReportContentType = "text/csv"

var reportHeader = []string{"username", "career", "logical", "coding", "communication", "creativity", "timestamp"}

// Report is a downloadable assessment history.
type Report struct {
	FileName    string
	ContentType string
	Data        []byte
}

func ReportFileName(username string) string {
	return username + "_career_report.csv"
}

// EncodeReport writes records as UTF-8 CSV with a header row.
func EncodeReport(records []domain.AssessmentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Username,
			r.PredictedCareer,
			strconv.Itoa(r.Logical),
			strconv.Itoa(r.Coding),
			strconv.Itoa(r.Communication),
			strconv.Itoa(r.Creativity),
			r.Timestamp.UTC().Format(domain.TimestampLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseReport reads a report produced by EncodeReport.
func ParseReport(r io.Reader) ([]domain.AssessmentRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(reportHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read report header: %w", err)
	}
	if !slices.Equal(header, reportHeader) {
		return nil, fmt.Errorf("unexpected report header %v", header)
	}

	records := []domain.AssessmentRecord{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read report row: %w", err)
		}

		var rec domain.AssessmentRecord
		rec.Username = row[0]
		rec.PredictedCareer = row[1]
		for i, dst := range []*int{&rec.Logical, &rec.Coding, &rec.Communication, &rec.Creativity} {
			v, err := strconv.Atoi(row[2+i])
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", reportHeader[2+i], err)
			}
			*dst = v
		}
		rec.Timestamp, err = time.ParseInLocation(domain.TimestampLayout, row[6], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
