package csvlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mcquiz/internal/quiz"
)

const DefaultPath = "quiz_results_uploaded_mc.csv"

// legacyTimestampLayout matches rows written without a zone offset.
const legacyTimestampLayout = "2006-01-02T15:04:05.999999999"

// FileLog is a quiz.ResultsLog kept as one flat CSV file with a fixed header.
//
// Every Append rewrites the file through a temporary sibling that is synced
// and then renamed over the original, so a crash leaves either the old or
// the new file and never a partial row. Two processes appending at the same
// time can lose one of the appends; this log assumes a single writer.
type FileLog struct {
	path string
}

func New(path string) *FileLog {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &FileLog{path: path}
}

func (l *FileLog) Path() string {
	return l.path
}

func (l *FileLog) Close() error {
	return nil
}

func (l *FileLog) Append(ctx context.Context, entry quiz.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, mode, err := l.readExisting()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if _, err := parse(bytes.NewReader(existing)); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}

	writer := csv.NewWriter(&buf)
	if len(existing) == 0 {
		if err := writer.Write(quiz.HistoryHeader); err != nil {
			return err
		}
	}
	if err := writer.Write(encode(entry)); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return writeAtomic(l.path, buf.Bytes(), mode)
}

func (l *FileLog) ReadAll(ctx context.Context) ([]quiz.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []quiz.HistoryEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	return parse(file)
}

func (l *FileLog) readExisting() ([]byte, os.FileMode, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0o644, nil
		}
		return nil, 0, err
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, 0, err
	}
	return data, info.Mode().Perm(), nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true

	return syncDir(dir)
}

func syncDir(dir string) error {
	handle, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer handle.Close()
	// Some platforms refuse fsync on directories; the rename already happened.
	_ = handle.Sync()
	return nil
}

func encode(entry quiz.HistoryEntry) []string {
	return []string{
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.User,
		strconv.Itoa(entry.CorrectCount),
		strconv.Itoa(entry.IncorrectCount),
		strconv.Itoa(entry.TotalQuestions),
		entry.IncorrectDetails,
	}
}

func parse(r io.Reader) ([]quiz.HistoryEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []quiz.HistoryEntry{}, nil
		}
		return nil, err
	}
	if !validHeader(header) {
		return nil, fmt.Errorf("%w: %q", quiz.ErrUnexpectedHeader, header)
	}

	entries := make([]quiz.HistoryEntry, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		entry, err := decode(record)
		if err != nil {
			return nil, fmt.Errorf("results log row %d: %w", line, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func validHeader(header []string) bool {
	if len(header) != len(quiz.HistoryHeader) {
		return false
	}
	for idx, name := range quiz.HistoryHeader {
		cell := strings.TrimSpace(header[idx])
		if idx == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		if cell != name {
			return false
		}
	}
	return true
}

func decode(record []string) (quiz.HistoryEntry, error) {
	if len(record) != len(quiz.HistoryHeader) {
		return quiz.HistoryEntry{}, fmt.Errorf("expected %d fields, got %d", len(quiz.HistoryHeader), len(record))
	}

	timestamp, err := parseTimestamp(record[0])
	if err != nil {
		return quiz.HistoryEntry{}, err
	}

	counts := make([]int, 3)
	for idx := range counts {
		value, err := strconv.Atoi(strings.TrimSpace(record[idx+2]))
		if err != nil {
			return quiz.HistoryEntry{}, fmt.Errorf("%s: %w", quiz.HistoryHeader[idx+2], err)
		}
		counts[idx] = value
	}

	return quiz.HistoryEntry{
		Timestamp:        timestamp,
		User:             record[1],
		CorrectCount:     counts[0],
		IncorrectCount:   counts[1],
		TotalQuestions:   counts[2],
		IncorrectDetails: record[5],
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(legacyTimestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", value, err)
	}
	return ts, nil
}
