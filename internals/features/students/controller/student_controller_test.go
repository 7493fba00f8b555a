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

// A school with no students answers 200 with a message body, not 404: the
// frontend branches on response.data.message.
func TestGetStudentsEmptyAnswersOK(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("school without students", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch))

		ctl := NewStudentController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/Students/:id", ctl.GetStudents)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/Students/"+primitive.NewObjectID().Hex(), nil))
		require.NoError(mt, err)
		defer resp.Body.Close()

		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(mt, err)
		var out struct {
			Message string `json:"message"`
		}
		require.NoError(mt, sonic.Unmarshal(body, &out))
		assert.Equal(mt, "No students found", out.Message)
	})
}
