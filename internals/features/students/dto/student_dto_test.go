package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	studentModel "schoolhub_backend/internals/features/students/model"
)

func TestStudentResponseNeverCarriesPassword(t *testing.T) {
	student := studentModel.StudentModel{
		ID:       primitive.NewObjectID(),
		Name:     "Asha",
		RollNum:  12,
		Password: "$2a$10$somethinghashed",
	}

	raw, err := sonic.Marshal(FromStudentModel(student, nil))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.NotContains(t, body, "password")
}

func TestLoginStudentResponseOmitsArrays(t *testing.T) {
	resp := LoginStudentResponse{
		ID:      primitive.NewObjectID(),
		Name:    "Asha",
		RollNum: 12,
		Role:    "Student",
	}

	raw, err := sonic.Marshal(resp)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.NotContains(t, body, "attendance")
	assert.NotContains(t, body, "examResult")
	assert.NotContains(t, body, "password")
}
