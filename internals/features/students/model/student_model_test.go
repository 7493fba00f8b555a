package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestUpsertAttendanceAppends(t *testing.T) {
	sub := primitive.NewObjectID()

	out, capped := UpsertAttendance(nil, sub, day("2026-03-02"), "Present", 10)
	require.False(t, capped)
	require.Len(t, out, 1)
	assert.Equal(t, "Present", out[0].Status)
	assert.Equal(t, sub, out[0].SubName)
}

func TestUpsertAttendanceOverwritesSameDay(t *testing.T) {
	sub := primitive.NewObjectID()
	entries := []AttendanceEntry{
		{Date: day("2026-03-02"), Status: "Present", SubName: sub},
	}

	out, capped := UpsertAttendance(entries, sub, day("2026-03-02"), "Absent", 10)
	require.False(t, capped)
	require.Len(t, out, 1)
	assert.Equal(t, "Absent", out[0].Status)
}

func TestUpsertAttendanceSameDayOtherSubjectAppends(t *testing.T) {
	subA := primitive.NewObjectID()
	subB := primitive.NewObjectID()
	entries := []AttendanceEntry{
		{Date: day("2026-03-02"), Status: "Present", SubName: subA},
	}

	out, capped := UpsertAttendance(entries, subB, day("2026-03-02"), "Present", 10)
	require.False(t, capped)
	assert.Len(t, out, 2)
}

func TestUpsertAttendanceCapReached(t *testing.T) {
	sub := primitive.NewObjectID()
	entries := []AttendanceEntry{
		{Date: day("2026-03-02"), Status: "Present", SubName: sub},
		{Date: day("2026-03-03"), Status: "Absent", SubName: sub},
	}

	out, capped := UpsertAttendance(entries, sub, day("2026-03-04"), "Present", 2)
	assert.True(t, capped)
	assert.Len(t, out, 2, "array must not grow past the sessions cap")
}

func TestUpsertAttendanceCapCountsPerSubject(t *testing.T) {
	subA := primitive.NewObjectID()
	subB := primitive.NewObjectID()
	entries := []AttendanceEntry{
		{Date: day("2026-03-02"), Status: "Present", SubName: subA},
		{Date: day("2026-03-03"), Status: "Present", SubName: subA},
	}

	// subB has zero entries, so subA being full must not block it
	out, capped := UpsertAttendance(entries, subB, day("2026-03-04"), "Present", 2)
	require.False(t, capped)
	assert.Len(t, out, 3)
}

func TestUpsertAttendanceOverwriteStillWorksAtCap(t *testing.T) {
	sub := primitive.NewObjectID()
	entries := []AttendanceEntry{
		{Date: day("2026-03-02"), Status: "Present", SubName: sub},
		{Date: day("2026-03-03"), Status: "Present", SubName: sub},
	}

	// same-day correction on a full subject is an overwrite, not an append
	out, capped := UpsertAttendance(entries, sub, day("2026-03-03"), "Absent", 2)
	require.False(t, capped)
	require.Len(t, out, 2)
	assert.Equal(t, "Absent", out[1].Status)
}

func TestUpsertAttendanceSameDayDifferentClock(t *testing.T) {
	sub := primitive.NewObjectID()
	entries := []AttendanceEntry{
		{Date: day("2026-03-02").Add(8 * time.Hour), Status: "Present", SubName: sub},
	}

	out, capped := UpsertAttendance(entries, sub, day("2026-03-02").Add(17*time.Hour), "Absent", 10)
	require.False(t, capped)
	require.Len(t, out, 1)
	assert.Equal(t, "Absent", out[0].Status)
}

func TestUpsertExamResultAppendsAndOverwrites(t *testing.T) {
	sub := primitive.NewObjectID()

	out := UpsertExamResult(nil, sub, 70)
	require.Len(t, out, 1)
	assert.Equal(t, 70, out[0].MarksObtained)

	out = UpsertExamResult(out, sub, 85)
	require.Len(t, out, 1, "re-grading must not duplicate the entry")
	assert.Equal(t, 85, out[0].MarksObtained)

	other := primitive.NewObjectID()
	out = UpsertExamResult(out, other, 40)
	assert.Len(t, out, 2)
}
