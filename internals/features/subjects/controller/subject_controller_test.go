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

	subjectModel "schoolhub_backend/internals/features/subjects/model"
)

// A school with no subjects answers 200 with a message body, not 404: the
// frontend branches on response.data.message.
func TestAllSubjectsEmptyAnswersOK(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("school without subjects", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.subjects", mtest.FirstBatch))

		ctl := NewSubjectController(mt.Client.Database("school"), nil)
		app := fiber.New()
		app.Get("/AllSubjects/:id", ctl.AllSubjects)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/AllSubjects/"+primitive.NewObjectID().Hex(), nil))
		require.NoError(mt, err)
		defer resp.Body.Close()

		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(mt, err)
		var out struct {
			Message string `json:"message"`
		}
		require.NoError(mt, sonic.Unmarshal(body, &out))
		assert.Equal(mt, "No subjects found", out.Message)
	})
}

// sub_code is only unique per school: the index must never hand out a row
// id that belongs to a different admin, even when codes collide.
func TestMirrorIndexScopedToAdmin(t *testing.T) {
	rows := []subjectModel.SubjectRow{
		{SubjectID: 11, SubCode: "PHY-101", AdminID: 1},
		{SubjectID: 22, SubCode: "PHY-101", AdminID: 2},
		{SubjectID: 33, SubCode: "CHEM-101", AdminID: 2},
	}

	byCode := mirrorIndex(rows, 2)
	assert.Equal(t, map[string]uint64{"PHY-101": 22, "CHEM-101": 33}, byCode)

	byCode = mirrorIndex(rows, 1)
	assert.Equal(t, map[string]uint64{"PHY-101": 11}, byCode)

	// an unresolved scope matches nothing rather than everything
	assert.Empty(t, mirrorIndex(rows, 0))
}

func TestMergeSubjectsLeavesUnmatchedNil(t *testing.T) {
	subjects := []subjectModel.SubjectModel{
		{SubName: "Physics", SubCode: "PHY-101"},
		{SubName: "Chemistry", SubCode: "CHEM-101"},
	}

	out := mergeSubjects(subjects, map[string]uint64{"PHY-101": 7})
	require.Len(t, out, 2)
	require.NotNil(t, out[0].MySQLID)
	assert.Equal(t, uint64(7), *out[0].MySQLID)
	assert.Nil(t, out[1].MySQLID)
}
