package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeacherAttendanceEntry struct {
	Date   time.Time `bson:"date" json:"date"`
	Status string    `bson:"status" json:"status"`
}

type TeacherModel struct {
	ID           primitive.ObjectID       `bson:"_id,omitempty" json:"_id,omitempty"`
	Name         string                   `bson:"name" json:"name"`
	Email        string                   `bson:"email" json:"email"`
	Password     string                   `bson:"password" json:"-"`
	Role         string                   `bson:"role" json:"role"`
	School       primitive.ObjectID       `bson:"school" json:"school"`
	TeachSubject *primitive.ObjectID      `bson:"teachSubject,omitempty" json:"teachSubject,omitempty"`
	TeachSclass  *primitive.ObjectID      `bson:"teachSclass,omitempty" json:"teachSclass,omitempty"`
	Attendance   []TeacherAttendanceEntry `bson:"attendance" json:"attendance"`
}

func (TeacherModel) CollectionName() string { return "teachers" }

// UpsertTeacherAttendance: upsert keyed by calendar day only (teachers have
// no per-subject sessions cap).
func UpsertTeacherAttendance(entries []TeacherAttendanceEntry, date time.Time, status string) []TeacherAttendanceEntry {
	for i := range entries {
		if sameDay(entries[i].Date, date) {
			entries[i].Status = status
			return entries
		}
	}
	return append(entries, TeacherAttendanceEntry{Date: date, Status: status})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// TeacherRow mirrors a teacher; joined to the document by email.
// subject_id is the mutual back-reference to subjects.teacher_id.
type TeacherRow struct {
	TeacherID uint64  `gorm:"primaryKey;autoIncrement;column:teacher_id" json:"teacher_id"`
	Name      string  `gorm:"size:255;not null;column:name" json:"name"`
	Email     string  `gorm:"size:255;not null;uniqueIndex:uq_teachers_email;column:email" json:"email"`
	Password  string  `gorm:"size:255;not null;column:password" json:"-"`
	Role      string  `gorm:"size:50;not null;default:'Teacher';column:role" json:"role"`
	AdminID   uint64  `gorm:"not null;index;column:admin_id" json:"admin_id"`
	SubjectID *uint64 `gorm:"index;column:subject_id" json:"subject_id"`
	SclassID  *uint64 `gorm:"index;column:sclass_id" json:"sclass_id"`
}

func (TeacherRow) TableName() string { return "teachers" }

type TeacherAttendanceRow struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	TeacherID uint64    `gorm:"not null;uniqueIndex:uq_ta_teacher_date;column:teacher_id" json:"teacher_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_ta_teacher_date;column:date" json:"date"`
	Status    string    `gorm:"size:50;not null;column:status" json:"status"`
}

func (TeacherAttendanceRow) TableName() string { return "teacher_attendance" }
