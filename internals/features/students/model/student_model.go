package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceEntry is one element of the embedded attendance array. The same
// logical record lives normalized in student_attendance on the MySQL side.
type AttendanceEntry struct {
	Date    time.Time          `bson:"date" json:"date"`
	Status  string             `bson:"status" json:"status"`
	SubName primitive.ObjectID `bson:"subName" json:"subName"`
}

type ExamResultEntry struct {
	SubName       primitive.ObjectID `bson:"subName" json:"subName"`
	MarksObtained int                `bson:"marksObtained" json:"marksObtained"`
}

type StudentModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	RollNum    int                `bson:"rollNum" json:"rollNum"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role,omitempty" json:"role,omitempty"`
	School     primitive.ObjectID `bson:"school" json:"school"`
	SclassName primitive.ObjectID `bson:"sclassName" json:"sclassName"`
	Attendance []AttendanceEntry  `bson:"attendance" json:"attendance"`
	ExamResult []ExamResultEntry  `bson:"examResult" json:"examResult"`
}

func (StudentModel) CollectionName() string { return "students" }

// UpsertAttendance applies the (subject, date) upsert against the embedded
// array: an entry on the same calendar day for the same subject has its
// status overwritten; otherwise a new entry is appended, unless the subject
// already holds `sessions` entries, in which case nothing changes and capped
// is true.
func UpsertAttendance(entries []AttendanceEntry, sub primitive.ObjectID, date time.Time, status string, sessions int) (out []AttendanceEntry, capped bool) {
	for i := range entries {
		if entries[i].SubName == sub && sameDay(entries[i].Date, date) {
			entries[i].Status = status
			return entries, false
		}
	}

	attended := 0
	for i := range entries {
		if entries[i].SubName == sub {
			attended++
		}
	}
	if attended >= sessions {
		return entries, true
	}

	return append(entries, AttendanceEntry{Date: date, Status: status, SubName: sub}), false
}

// UpsertExamResult overwrites the marks for the subject if present, appends
// otherwise. No cap applies.
func UpsertExamResult(entries []ExamResultEntry, sub primitive.ObjectID, marks int) []ExamResultEntry {
	for i := range entries {
		if entries[i].SubName == sub {
			entries[i].MarksObtained = marks
			return entries
		}
	}
	return append(entries, ExamResultEntry{SubName: sub, MarksObtained: marks})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// StudentRow mirrors a student; joined to the document by (roll_num, name).
type StudentRow struct {
	StudentID uint64 `gorm:"primaryKey;autoIncrement;column:student_id" json:"student_id"`
	Name      string `gorm:"size:255;not null;uniqueIndex:uq_students_roll_name;column:name" json:"name"`
	RollNum   int    `gorm:"not null;uniqueIndex:uq_students_roll_name;column:roll_num" json:"roll_num"`
	Password  string `gorm:"size:255;not null;column:password" json:"-"`
	AdminID   uint64 `gorm:"not null;index;column:admin_id" json:"admin_id"`
	SclassID  uint64 `gorm:"not null;index;column:sclass_id" json:"sclass_id"`
}

func (StudentRow) TableName() string { return "students" }

// StudentAttendanceRow is the normalized projection of AttendanceEntry. The
// composite unique key backs the ON DUPLICATE KEY UPDATE upsert.
type StudentAttendanceRow struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	StudentID uint64    `gorm:"not null;uniqueIndex:uq_sa_student_subject_date;column:student_id" json:"student_id"`
	SubjectID uint64    `gorm:"not null;uniqueIndex:uq_sa_student_subject_date;column:subject_id" json:"subject_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_sa_student_subject_date;column:date" json:"date"`
	Status    string    `gorm:"size:50;not null;column:status" json:"status"`
}

func (StudentAttendanceRow) TableName() string { return "student_attendance" }

type ExamResultRow struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	StudentID     uint64 `gorm:"not null;uniqueIndex:uq_er_student_subject;column:student_id" json:"student_id"`
	SubjectID     uint64 `gorm:"not null;uniqueIndex:uq_er_student_subject;column:subject_id" json:"subject_id"`
	MarksObtained int    `gorm:"not null;column:marks_obtained" json:"marks_obtained"`
}

func (ExamResultRow) TableName() string { return "exam_results" }
