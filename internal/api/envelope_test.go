package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrains/finbrains/internal/model"
)

func TestUnwrapRawArray(t *testing.T) {
	var out []model.Category
	err := unwrap([]byte(`[{"id":"1","name":"Groceries"}]`), &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Groceries", out[0].Name)
}

func TestUnwrapEnvelopedArray(t *testing.T) {
	var out []model.Category
	err := unwrap([]byte(`{"data":[{"id":"1","name":"Groceries"}]}`), &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Groceries", out[0].Name)
}

func TestUnwrapRawObject(t *testing.T) {
	var out model.BudgetStatus
	err := unwrap([]byte(`{"monthKey":"2024-06","budget":1000,"spent":400}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", out.MonthKey)
	assert.InDelta(t, 400, out.Spent, 0.001)
}

func TestUnwrapEnvelopedObject(t *testing.T) {
	var out model.BudgetStatus
	err := unwrap([]byte(`{"data":{"monthKey":"2024-06","budget":1000}}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", out.MonthKey)
	assert.InDelta(t, 1000, out.Budget, 0.001)
}

func TestUnwrapEmptyBody(t *testing.T) {
	var out []model.Category
	require.NoError(t, unwrap(nil, &out))
	assert.Nil(t, out)
}

func TestUnwrapGarbage(t *testing.T) {
	var out []model.Category
	assert.Error(t, unwrap([]byte("<html>"), &out))
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "no!", serverMessage([]byte(`{"message":"no!"}`)))
	assert.Equal(t, "denied", serverMessage([]byte(`{"error":"denied"}`)))
	assert.Empty(t, serverMessage([]byte(`plain text`)))
}
