package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	adminModel "schoolhub_backend/internals/features/admins/model"
	helper "schoolhub_backend/internals/helpers"
)

func sample() adminModel.AdminModel {
	return adminModel.AdminModel{
		ID:         primitive.NewObjectID(),
		Name:       "Head",
		Email:      "head@school.test",
		Password:   "hunter2",
		Role:       "Admin",
		SchoolName: "Hilltop High",
	}
}

func TestRegisterAdminRequestEmailTag(t *testing.T) {
	req := RegisterAdminRequest{
		Name:       "Head",
		Email:      "not-an-email",
		Password:   "hunter2",
		SchoolName: "Hilltop High",
	}

	err := helper.ValidateStruct(req)
	require.Error(t, err)
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)

	req.Email = "head@school.test"
	assert.NoError(t, helper.ValidateStruct(req))

	// a missing email stays with the pinned "Email is required" check
	req.Email = ""
	assert.NoError(t, helper.ValidateStruct(req))
}

func TestAdminResponseNeverCarriesPassword(t *testing.T) {
	raw, err := sonic.Marshal(FromAdminModel(sample(), nil))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.NotContains(t, body, "password")
	assert.NotContains(t, string(raw), "hunter2")
}

func TestAdminResponseMySQLID(t *testing.T) {
	id := uint64(42)
	raw, err := sonic.Marshal(FromAdminModel(sample(), &id))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.EqualValues(t, 42, body["mysql_id"])

	raw, err = sonic.Marshal(FromAdminModel(sample(), nil))
	require.NoError(t, err)
	body = nil
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.NotContains(t, body, "mysql_id", "absent mirror row must omit the field, not send null")
}
