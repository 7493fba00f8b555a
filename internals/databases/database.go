package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	adminModel "schoolhub_backend/internals/features/admins/model"
	classModel "schoolhub_backend/internals/features/classes/model"
	studentModel "schoolhub_backend/internals/features/students/model"
	subjectModel "schoolhub_backend/internals/features/subjects/model"
	teacherModel "schoolhub_backend/internals/features/teachers/model"
)

// Both handles are opened once at startup and shared by every request
// handler; there is no per-request connection scope.
var (
	MySQL       *gorm.DB
	MongoClient *mongo.Client
	Mongo       *mongo.Database
)

// ConnectMongo opens the primary (document) store.
func ConnectMongo(ctx context.Context) error {
	log.Println("🔌 Connecting to MongoDB...")

	uri := configs.GetEnv("MONGO_URL", "mongodb://localhost:27017")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	MongoClient = client
	Mongo = client.Database(configs.GetEnv("MONGO_DB", "school"))
	log.Println("✅ Connected to MongoDB")
	return nil
}

// ConnectMySQL opens the secondary (relational) store.
func ConnectMySQL() error {
	log.Println("🔌 Connecting to MySQL...")

	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"),
		configs.GetEnv("DB_HOST", "127.0.0.1"),
		configs.GetEnv("DB_PORT", "3306"),
		os.Getenv("DB_NAME"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}

	MySQL = db
	log.Println("✅ Connected to MySQL")
	return nil
}

func TunePool() {
	sqlDB, err := MySQL.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates the mirror tables and the constraints the dual-write code
// depends on: composite unique keys backing ON DUPLICATE KEY upserts, and
// the ON DELETE CASCADE chains the delete paths silently rely on.
func Migrate() error {
	if err := MySQL.AutoMigrate(
		&adminModel.AdminRow{},
		&classModel.SclassRow{},
		&subjectModel.SubjectRow{},
		&studentModel.StudentRow{},
		&teacherModel.TeacherRow{},
		&studentModel.StudentAttendanceRow{},
		&studentModel.ExamResultRow{},
		&teacherModel.TeacherAttendanceRow{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// Cross-table FKs are added raw to keep the row structs free of circular
	// association fields (subjects and teachers reference each other).
	constraints := []string{
		"ALTER TABLE sclass ADD CONSTRAINT fk_sclass_admin FOREIGN KEY (admin_id) REFERENCES admin (admin_id) ON DELETE CASCADE",
		"ALTER TABLE subjects ADD CONSTRAINT fk_subjects_admin FOREIGN KEY (admin_id) REFERENCES admin (admin_id) ON DELETE CASCADE",
		"ALTER TABLE subjects ADD CONSTRAINT fk_subjects_sclass FOREIGN KEY (sclass_id) REFERENCES sclass (sclass_id) ON DELETE CASCADE",
		"ALTER TABLE subjects ADD CONSTRAINT fk_subjects_teacher FOREIGN KEY (teacher_id) REFERENCES teachers (teacher_id) ON DELETE SET NULL",
		"ALTER TABLE students ADD CONSTRAINT fk_students_admin FOREIGN KEY (admin_id) REFERENCES admin (admin_id) ON DELETE CASCADE",
		"ALTER TABLE students ADD CONSTRAINT fk_students_sclass FOREIGN KEY (sclass_id) REFERENCES sclass (sclass_id) ON DELETE CASCADE",
		"ALTER TABLE teachers ADD CONSTRAINT fk_teachers_admin FOREIGN KEY (admin_id) REFERENCES admin (admin_id) ON DELETE CASCADE",
		"ALTER TABLE teachers ADD CONSTRAINT fk_teachers_sclass FOREIGN KEY (sclass_id) REFERENCES sclass (sclass_id) ON DELETE CASCADE",
		"ALTER TABLE teachers ADD CONSTRAINT fk_teachers_subject FOREIGN KEY (subject_id) REFERENCES subjects (subject_id) ON DELETE SET NULL",
		"ALTER TABLE student_attendance ADD CONSTRAINT fk_sa_student FOREIGN KEY (student_id) REFERENCES students (student_id) ON DELETE CASCADE",
		"ALTER TABLE student_attendance ADD CONSTRAINT fk_sa_subject FOREIGN KEY (subject_id) REFERENCES subjects (subject_id) ON DELETE CASCADE",
		"ALTER TABLE exam_results ADD CONSTRAINT fk_er_student FOREIGN KEY (student_id) REFERENCES students (student_id) ON DELETE CASCADE",
		"ALTER TABLE exam_results ADD CONSTRAINT fk_er_subject FOREIGN KEY (subject_id) REFERENCES subjects (subject_id) ON DELETE CASCADE",
		"ALTER TABLE teacher_attendance ADD CONSTRAINT fk_ta_teacher FOREIGN KEY (teacher_id) REFERENCES teachers (teacher_id) ON DELETE CASCADE",
	}
	for _, stmt := range constraints {
		if err := MySQL.Exec(stmt).Error; err != nil {
			// re-running against an existing schema raises duplicate-constraint errors
			if strings.Contains(err.Error(), "Duplicate") || strings.Contains(err.Error(), "errno: 121") {
				continue
			}
			log.Printf("[WARN] constraint skipped: %v", err)
		}
	}
	return nil
}

func Ping(ctx context.Context) error {
	sqlDB, err := MySQL.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	return MongoClient.Ping(ctx, readpref.Primary())
}

// Close shuts both clients down; called once from main on exit.
func Close(ctx context.Context) {
	if MySQL != nil {
		if sqlDB, err := MySQL.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if MongoClient != nil {
		_ = MongoClient.Disconnect(ctx)
	}
}
