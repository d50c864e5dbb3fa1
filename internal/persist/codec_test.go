package persist

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

func sampleTasks() []schedule.Task {
	hours := 6.5
	return []schedule.Task{
		{
			ID:        "p",
			Name:      "Phase",
			Priority:  domain.PriorityHigh,
			Color:     domain.ColorTeal,
			StartDate: calendar.Date(2024, 1, 1),
			EndDate:   calendar.Date(2024, 1, 10),
			Collapsed: true,
			CreatedAt: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:             "c",
			Name:           "Child",
			Description:    "does things",
			Priority:       domain.PriorityLow,
			StartDate:      calendar.Date(2024, 1, 1),
			EndDate:        calendar.Date(2024, 1, 10),
			EstimatedHours: &hours,
			ParentID:       "p",
			Dependencies:   []string{"x"},
		},
	}
}

func TestEncode_Layout(t *testing.T) {
	data, err := Encode(sampleTasks())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(SchemaVersion), raw["version"])

	tasks := raw["tasks"].([]any)
	require.Len(t, tasks, 2)
	first := tasks[0].(map[string]any)
	assert.Equal(t, "2024-01-01", first["startDate"])
	assert.Equal(t, "2024-01-10", first["endDate"])
	assert.Equal(t, "2024-01-01T09:30:00Z", first["createdAt"])
	assert.Equal(t, "teal", first["color"])
}

func TestEncode_EmptyCollection(t *testing.T) {
	data, err := Encode(nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"tasks":[]}`, string(data))
}

func TestDecode_RoundTrip(t *testing.T) {
	data, err := Encode(sampleTasks())
	require.NoError(t, err)

	got, err := Decode(data)

	require.NoError(t, err)
	assert.Equal(t, sampleTasks(), got)
}

func TestDecode_VersionMismatch(t *testing.T) {
	got, err := Decode([]byte(`{"version":0,"tasks":[{"id":"a","name":"A","startDate":"2024-01-01","endDate":"2024-01-02"}]}`))

	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 0, mismatch.Found)
	assert.Empty(t, got)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"bad start date", `{"version":1,"tasks":[{"id":"a","name":"A","startDate":"01/02/2024","endDate":"2024-01-02"}]}`},
		{"bad created at", `{"version":1,"tasks":[{"id":"a","name":"A","startDate":"2024-01-01","endDate":"2024-01-02","createdAt":"yesterday"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Equal(t, errors.ErrCodeStoreDecode, errors.CodeOf(err))
		})
	}
}

func genTask(t *rapid.T, i int) schedule.Task {
	start := calendar.AddDays(calendar.Date(2020, 1, 1), rapid.IntRange(0, 2000).Draw(t, "start"))
	task := schedule.Task{
		ID:        fmt.Sprintf("task-%d", i),
		Name:      rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,20}`).Draw(t, "name"),
		Priority:  rapid.SampledFrom(domain.Priorities).Draw(t, "priority"),
		Color:     rapid.SampledFrom(append([]domain.Color{domain.ColorNone}, domain.Palette()...)).Draw(t, "color"),
		StartDate: start,
		EndDate:   calendar.AddDays(start, rapid.IntRange(0, 90).Draw(t, "len")),
		Collapsed: rapid.Bool().Draw(t, "collapsed"),
	}
	if rapid.Bool().Draw(t, "hasCreated") {
		task.CreatedAt = time.Unix(rapid.Int64Range(0, 2_000_000_000).Draw(t, "created"), 0).UTC()
	}
	if rapid.Bool().Draw(t, "hasHours") {
		h := float64(rapid.IntRange(0, 400).Draw(t, "hours")) / 4
		task.EstimatedHours = &h
	}
	if i > 0 && rapid.Bool().Draw(t, "hasDeps") {
		task.Dependencies = []string{fmt.Sprintf("task-%d", rapid.IntRange(0, i-1).Draw(t, "dep"))}
	}
	if i > 0 && rapid.Bool().Draw(t, "hasParent") {
		task.ParentID = fmt.Sprintf("task-%d", rapid.IntRange(0, i-1).Draw(t, "parent"))
	}
	return task
}

func TestProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(t, "n")
		tasks := make([]schedule.Task, 0, n)
		for i := 0; i < n; i++ {
			tasks = append(tasks, genTask(t, i))
		}

		data, err := Encode(tasks)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !assert.ObjectsAreEqual(tasks, got) {
			t.Fatalf("round trip changed tasks:\nwant %+v\ngot  %+v", tasks, got)
		}
	})
}
