package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatch_Apply(t *testing.T) {
	stored := Task{
		ID:          1,
		Title:       "Original",
		Description: StringPtr("desc"),
		Status:      StringPtr("pending"),
	}

	tests := []struct {
		name  string
		patch TaskPatch
		want  Task
	}{
		{
			name:  "empty patch keeps everything",
			patch: TaskPatch{},
			want:  stored,
		},
		{
			name:  "title only",
			patch: TaskPatch{Title: Some("X")},
			want:  Task{ID: 1, Title: "X", Description: StringPtr("desc"), Status: StringPtr("pending")},
		},
		{
			name:  "status and description",
			patch: TaskPatch{Description: Some("new"), Status: Some("done")},
			want:  Task{ID: 1, Title: "Original", Description: StringPtr("new"), Status: StringPtr("done")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.patch.Apply(stored)
			assert.Equal(t, tt.want, got)
		})
	}

	// stored task must stay untouched
	assert.Equal(t, "Original", stored.Title)
	assert.Equal(t, "desc", *stored.Description)
}

func TestTask_Normalize(t *testing.T) {
	task := Task{ID: 1, Title: "", Description: StringPtr(""), Status: StringPtr("open")}
	got := task.Normalize()

	assert.Equal(t, "", got.Title)
	assert.Nil(t, got.Description)
	require.NotNil(t, got.Status)
	assert.Equal(t, "open", *got.Status)
}

func TestTask_NormalizeLineEndings(t *testing.T) {
	task := Task{Title: "a\rb", Description: StringPtr("x\r\ny\rz"), Status: StringPtr("\r")}
	got := task.Normalize()

	assert.Equal(t, "a\nb", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "x\ny\nz", *got.Description)
	require.NotNil(t, got.Status)
	assert.Equal(t, "\n", *got.Status)

	// исходная задача не меняется
	assert.Equal(t, "x\r\ny\rz", *task.Description)
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		Title       Optional[string] `json:"title"`
		Description Optional[string] `json:"description"`
		Status      Optional[string] `json:"status"`
	}

	err := json.Unmarshal([]byte(`{"title":"A","description":null}`), &body)
	require.NoError(t, err)

	assert.Equal(t, Some("A"), body.Title)
	assert.False(t, body.Description.Set)
	assert.False(t, body.Status.Set)

	err = json.Unmarshal([]byte(`{"title":123}`), &body)
	assert.Error(t, err)
}

func TestOptional_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Optional[int64] `json:"a"`
		B Optional[int64] `json:"b"`
	}{A: Some(int64(7))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":null}`, string(data))
}
