// file: internal/server/response_types_test.go
// version: 2.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package server

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/cfr-navigator/internal/models"
)

func kneeCondition() *models.Condition {
	return &models.Condition{
		ID:         "knee_flexion",
		Name:       "Limitation of flexion of the knee",
		BodySystem: "Musculoskeletal",
		CFR: []models.Citation{
			{Section: "38 CFR § 4.71a", DiagnosticCode: "5260", Title: "Leg, limitation of flexion", URL: "https://example.test/4.71a"},
		},
		RatingLogic: &models.RatingLogic{
			Type:       models.RatingThresholds,
			Thresholds: []models.Threshold{{Degrees: 60, RatingPercent: 0}, {Degrees: 45, RatingPercent: 10}},
		},
		EvidenceChecklist: []string{"Range of motion exam", "Imaging", "Lay statement"},
	}
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse([]string{"a", "b"}, 2)
	assert.Equal(t, 2, resp.Count)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":["a","b"],"count":2}`, string(data))
}

func TestNewMessageResponse(t *testing.T) {
	resp := NewMessageResponse("saved", "OK")
	assert.Equal(t, "saved", resp.Message)
	assert.Equal(t, "OK", resp.Code)
}

func TestNewConditionDetail(t *testing.T) {
	detail := NewConditionDetail(kneeCondition())

	assert.Equal(t, "sys-musculoskeletal", detail.SystemClass)
	assert.Equal(t, models.RatingThresholds, detail.RatingKind)
	assert.Equal(t, "§ 4.71a • DC 5260 • Leg, limitation of flexion", detail.Summary)
	assert.Equal(t, []string{"jump-dc-5260", "jump-sec-4.71a"}, detail.Anchors)
}

func TestNewEvidenceResponse(t *testing.T) {
	resp := NewEvidenceResponse(kneeCondition(), map[int]bool{0: true, 2: true, 9: true})

	assert.Equal(t, "knee_flexion", resp.ID)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Completed)
	require.Len(t, resp.Items, 3)
	assert.True(t, resp.Items[0].Checked)
	assert.False(t, resp.Items[1].Checked)
	assert.Equal(t, "Lay statement", resp.Items[2].Text)
}

func TestNewEvidenceResponseWithoutChecklist(t *testing.T) {
	c := kneeCondition()
	c.EvidenceChecklist = nil

	data, err := json.Marshal(NewEvidenceResponse(c, nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
}
