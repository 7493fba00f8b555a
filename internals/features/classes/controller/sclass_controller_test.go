package controller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func getMessage(t require.TestingT, app *fiber.App, path string) (int, string) {
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, sonic.Unmarshal(body, &out))
	return resp.StatusCode, out.Message
}

// Empty and missing lookups answer 200 with a message body, not an error
// status: the frontend branches on response.data.message.
func TestEmptyResultsAnswerOK(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("school without classes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.sclasses", mtest.FirstBatch))

		ctl := NewSclassController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/SclassList/:id", ctl.List)

		status, msg := getMessage(mt, app, "/SclassList/"+primitive.NewObjectID().Hex())
		assert.Equal(mt, fiber.StatusOK, status)
		assert.Equal(mt, "No classes found", msg)
	})

	mt.Run("missing class detail", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.sclasses", mtest.FirstBatch))

		ctl := NewSclassController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/Sclass/:id", ctl.GetDetail)

		status, msg := getMessage(mt, app, "/Sclass/"+primitive.NewObjectID().Hex())
		assert.Equal(mt, fiber.StatusOK, status)
		assert.Equal(mt, "No class found", msg)
	})

	mt.Run("class without students", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch))

		ctl := NewSclassController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/Sclass/Students/:id", ctl.GetStudents)

		status, msg := getMessage(mt, app, "/Sclass/Students/"+primitive.NewObjectID().Hex())
		assert.Equal(mt, fiber.StatusOK, status)
		assert.Equal(mt, "No students found", msg)
	})
}

// A class with no teachers keeps its 404; only the endpoints above use the
// message contract.
func TestClassWithoutTeachersIs404(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("class without teachers", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.teachers", mtest.FirstBatch))

		ctl := NewSclassController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/Sclass/Teachers/:id", ctl.GetTeachers)

		status, msg := getMessage(mt, app, "/Sclass/Teachers/"+primitive.NewObjectID().Hex())
		assert.Equal(mt, fiber.StatusNotFound, status)
		assert.Equal(mt, "No teachers found for this class", msg)
	})
}
