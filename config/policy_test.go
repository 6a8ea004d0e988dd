package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLbPolicy(t *testing.T) {
	p, err := ParseLbPolicy("Least_Pending")
	require.NoError(t, err)
	assert.Equal(t, LeastPending, p)

	_, err = ParseLbPolicy("LEAST")
	assert.Error(t, err)
}

func TestLbPolicyString(t *testing.T) {
	assert.Equal(t, "ROUND_ROBIN", RoundRobin.String())
	assert.Equal(t, "WEIGHTED_ROUND_ROBIN", WeightedRoundRobin.String())
	assert.Equal(t, "LEAST_PENDING", LeastPending.String())
	assert.Equal(t, "LbPolicy(7)", LbPolicy(7).String())
	assert.False(t, LbPolicy(7).IsValid())
}

func TestLbPolicyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Policy LbPolicy `json:"policy"`
	}{LeastPending})
	require.NoError(t, err)
	assert.JSONEq(t, `{"policy":"LEAST_PENDING"}`, string(data))

	var decoded struct {
		Policy LbPolicy `json:"policy"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"policy":"wrr"}`), &decoded))
	assert.Equal(t, WeightedRoundRobin, decoded.Policy)
}
