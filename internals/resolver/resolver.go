// Package resolver is the natural-key translation layer between the two
// stores. The document store and the relational store share no primary keys,
// so every cross-store operation first resolves the MySQL numeric id through
// a business key: admin email, (sclassName, admin), (subCode, admin),
// (rollNum, name), teacher email. There is no caching and no healing: a
// missing row surfaces as ErrNotFound and the caller turns it into a 404.
package resolver

import (
	"context"
	"errors"

	"gorm.io/gorm"

	adminModel "schoolhub_backend/internals/features/admins/model"
	classModel "schoolhub_backend/internals/features/classes/model"
	studentModel "schoolhub_backend/internals/features/students/model"
	subjectModel "schoolhub_backend/internals/features/subjects/model"
	teacherModel "schoolhub_backend/internals/features/teachers/model"
)

var ErrNotFound = errors.New("not found in MySQL database")

type Resolver struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Resolver { return &Resolver{DB: db} }

func (r *Resolver) AdminID(ctx context.Context, email string) (uint64, error) {
	var row adminModel.AdminRow
	err := r.DB.WithContext(ctx).
		Select("admin_id").
		Where("email = ?", email).
		First(&row).Error
	return row.AdminID, wrap(err)
}

func (r *Resolver) SclassID(ctx context.Context, sclassName string, adminID uint64) (uint64, error) {
	var row classModel.SclassRow
	err := r.DB.WithContext(ctx).
		Select("sclass_id").
		Where("sclass_name = ? AND admin_id = ?", sclassName, adminID).
		First(&row).Error
	return row.SclassID, wrap(err)
}

func (r *Resolver) SubjectID(ctx context.Context, subCode string, adminID uint64) (uint64, error) {
	var row subjectModel.SubjectRow
	err := r.DB.WithContext(ctx).
		Select("subject_id").
		Where("sub_code = ? AND admin_id = ?", subCode, adminID).
		First(&row).Error
	return row.SubjectID, wrap(err)
}

// SubjectIDByCode resolves without the admin scope; a few original paths
// (exam results, attendance, teacher reassignment) look up by code alone.
func (r *Resolver) SubjectIDByCode(ctx context.Context, subCode string) (uint64, error) {
	var row subjectModel.SubjectRow
	err := r.DB.WithContext(ctx).
		Select("subject_id").
		Where("sub_code = ?", subCode).
		First(&row).Error
	return row.SubjectID, wrap(err)
}

func (r *Resolver) StudentID(ctx context.Context, rollNum int, name string) (uint64, error) {
	var row studentModel.StudentRow
	err := r.DB.WithContext(ctx).
		Select("student_id").
		Where("roll_num = ? AND name = ?", rollNum, name).
		First(&row).Error
	return row.StudentID, wrap(err)
}

func (r *Resolver) TeacherID(ctx context.Context, email string) (uint64, error) {
	var row teacherModel.TeacherRow
	err := r.DB.WithContext(ctx).
		Select("teacher_id").
		Where("email = ?", email).
		First(&row).Error
	return row.TeacherID, wrap(err)
}

func wrap(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
