package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeflow/internal/storage"
)

func TestGroceries(t *testing.T) {
	tr, _ := setup(t)

	milk, err := tr.Groceries.Add("Milk", "2L", "Dairy")
	require.NoError(t, err)
	bread, err := tr.Groceries.Add("Bread", "", "")
	require.NoError(t, err)
	assert.Equal(t, "General", bread.Category)

	_, err = tr.Groceries.Add("  ", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, tr.Groceries.SetPurchased(milk.ID, true))

	pending, err := tr.Groceries.List(true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Bread", pending[0].Name)

	all, err := tr.Groceries.List(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bread", all[0].Name, "unpurchased items first")

	cleared, err := tr.Groceries.ClearPurchased()
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	require.NoError(t, tr.Groceries.Delete(bread.ID))
	assert.ErrorIs(t, tr.Groceries.Delete(bread.ID), storage.ErrNotFound)
	assert.ErrorIs(t, tr.Groceries.SetPurchased("missing", true), storage.ErrNotFound)
}
