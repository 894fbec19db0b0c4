package repo

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BuzzLyutic/task-store-api/internal/model"
)

var columns = []string{"id", "title", "description", "status"}

// encodeTasks пишет заголовок и все задачи; строки заканчиваются CRLF, как в существующих файлах
func encodeTasks(tasks []model.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			deref(t.Description),
			deref(t.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeTasks читает документ по заголовку, порядок колонок может быть любым
func decodeTasks(data []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrorCorrupt, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"id", "title"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrorCorrupt, required)
		}
	}

	var tasks []model.Task
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrorCorrupt, err)
		}

		line, _ := r.FieldPos(0)
		id, err := strconv.ParseInt(strings.TrimSpace(record[idx["id"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid id %q", ErrorCorrupt, line, record[idx["id"]])
		}

		tasks = append(tasks, model.Task{
			ID:          id,
			Title:       record[idx["title"]],
			Description: optionalField(record, idx, "description"),
			Status:      optionalField(record, idx, "status"),
		})
	}
	return tasks, nil
}

// пустая ячейка = поле отсутствует
func optionalField(record []string, idx map[string]int, name string) *string {
	i, ok := idx[name]
	if !ok || record[i] == "" {
		return nil
	}
	v := record[i]
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
