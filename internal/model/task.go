package model

import "strings"

type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskInput - данные для создания задачи. ID задается только при импорте, обычно хранилище назначает его само
type TaskInput struct {
	ID          Optional[int64]
	Title       string
	Description *string
	Status      *string
}

// TaskPatch - частичное обновление: отсутствующее поле не меняет сохраненное значение
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[string]
}

type TaskFilter struct {
	Status *string
	Title  *string
}

// Apply сливает патч с задачей и возвращает результат, исходная задача не меняется
func (p TaskPatch) Apply(t Task) Task {
	if v, ok := p.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		t.Description = &v
	}
	if v, ok := p.Status.Get(); ok {
		t.Status = &v
	}
	return t
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeText приводит переводы строк \r\n и \r к \n: CSV не сохраняет одиночный \r
func NormalizeText(s string) string {
	return newlines.Replace(s)
}

// Normalize приводит задачу к виду, в котором она читается обратно из CSV:
// пустые необязательные поля становятся nil, переводы строк - \n
func (t Task) Normalize() Task {
	t.Title = NormalizeText(t.Title)
	if t.Description != nil {
		if *t.Description == "" {
			t.Description = nil
		} else {
			t.Description = StringPtr(NormalizeText(*t.Description))
		}
	}
	if t.Status != nil {
		if *t.Status == "" {
			t.Status = nil
		} else {
			t.Status = StringPtr(NormalizeText(*t.Status))
		}
	}
	return t
}

func StringPtr(s string) *string {
	return &s
}

// TaskRequest - тело POST/PUT запроса. id клиента игнорируется, title обязателен
type TaskRequest struct {
	Title       Optional[string] `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
}
