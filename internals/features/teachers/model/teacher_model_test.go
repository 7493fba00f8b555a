package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestUpsertTeacherAttendanceAppends(t *testing.T) {
	out := UpsertTeacherAttendance(nil, day("2026-03-02"), "Present")
	require.Len(t, out, 1)
	assert.Equal(t, "Present", out[0].Status)
}

func TestUpsertTeacherAttendanceOverwritesSameDay(t *testing.T) {
	entries := []TeacherAttendanceEntry{
		{Date: day("2026-03-02"), Status: "Present"},
	}

	out := UpsertTeacherAttendance(entries, day("2026-03-02").Add(6*time.Hour), "Absent")
	require.Len(t, out, 1)
	assert.Equal(t, "Absent", out[0].Status)
}

func TestUpsertTeacherAttendanceNoCap(t *testing.T) {
	var entries []TeacherAttendanceEntry
	for i := 0; i < 400; i++ {
		entries = UpsertTeacherAttendance(entries, day("2026-03-02").AddDate(0, 0, i), "Present")
	}
	assert.Len(t, entries, 400)
}
