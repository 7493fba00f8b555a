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

func teacherMessage(t require.TestingT, app *fiber.App, path string) (int, string) {
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

// Empty teacher lookups answer 200 with a message body, not 404: the
// frontend branches on response.data.message.
func TestTeacherLookupsEmptyAnswerOK(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("school without teachers", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.teachers", mtest.FirstBatch))

		ctl := NewTeacherController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/Teachers/:id", ctl.GetTeachers)

		status, msg := teacherMessage(mt, app, "/Teachers/"+primitive.NewObjectID().Hex())
		assert.Equal(mt, fiber.StatusOK, status)
		assert.Equal(mt, "No teachers found", msg)
	})

	mt.Run("missing teacher detail", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.teachers", mtest.FirstBatch))

		ctl := NewTeacherController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/Teacher/:id", ctl.GetDetail)

		status, msg := teacherMessage(mt, app, "/Teacher/"+primitive.NewObjectID().Hex())
		assert.Equal(mt, fiber.StatusOK, status)
		assert.Equal(mt, "No teacher found", msg)
	})
}
