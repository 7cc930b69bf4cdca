package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&CreateExpenseRequest{
		GroupID:  "g1",
		Amount:   "12.50",
		PaidBy:   "alice",
		Involved: []InvolvedMember{{UserID: "u1", Name: "alice"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"groupId": "g1",
		"description": "",
		"amount": "12.50",
		"type": "",
		"paidBy": "alice",
		"involved": [{"userId": "u1", "name": "alice"}]
	}`, string(data))

	t.Run("empty body decodes to zero message", func(t *testing.T) {
		var req GetDashboardRequest
		assert.NoError(t, codec.Unmarshal(nil, &req))
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		var req JoinGroupRequest
		require.NoError(t, codec.Unmarshal([]byte(`{"inviteCode":"abcdef0123","extra":1}`), &req))
		assert.Equal(t, "abcdef0123", req.InviteCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		var req JoinGroupRequest
		err := codec.Unmarshal([]byte(`{"inviteCode":`), &req)
		assert.ErrorContains(t, err, "JoinGroupRequest")
	})
}
