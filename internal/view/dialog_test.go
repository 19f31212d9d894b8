package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/model"
)

func TestDialog_Lifecycle(t *testing.T) {
	var d Dialog[model.Product]
	assert.Equal(t, Closed, d.State())
	assert.False(t, d.Edit(), "cannot edit a closed dialog")

	p := model.Product{ID: "p1", Name: "Lamp", Quantity: 10}
	d.Open(p)
	assert.Equal(t, Viewing, d.State())

	require.True(t, d.Edit())
	assert.Equal(t, Editing, d.State())
	require.True(t, d.Update(func(draft *model.Product) { draft.Name = "Desk lamp" }))

	shown, ok := d.Entity()
	require.True(t, ok)
	assert.Equal(t, "Lamp", shown.Name, "edits only touch the draft")

	got, ok := d.Commit()
	require.True(t, ok)
	assert.Equal(t, "Desk lamp", got.Name)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, Closed, d.State())
}

func TestDialog_Cancel(t *testing.T) {
	var d Dialog[model.Order]
	d.Open(model.Order{ID: "o1", Status: model.StatusInTransit})
	require.True(t, d.Edit())
	d.Update(func(o *model.Order) { o.Status = model.StatusDelivered })

	d.Cancel()
	assert.Equal(t, Viewing, d.State())
	_, ok := d.Draft()
	assert.False(t, ok)

	require.True(t, d.Edit())
	draft, _ := d.Draft()
	assert.Equal(t, model.StatusInTransit, draft.Status, "new edit starts from the entity")
}

func TestDialog_CommitWithoutEdit(t *testing.T) {
	var d Dialog[model.Product]
	d.Open(model.Product{ID: "p1"})

	_, ok := d.Commit()
	assert.False(t, ok)
	assert.Equal(t, Viewing, d.State())
	assert.False(t, d.Update(func(*model.Product) {}))
}

func TestDialog_OpenDiscardsDraft(t *testing.T) {
	var d Dialog[model.Product]
	d.Open(model.Product{ID: "p1"})
	d.Edit()

	d.Open(model.Product{ID: "p2"})
	assert.Equal(t, Viewing, d.State())
	e, _ := d.Entity()
	assert.Equal(t, "p2", e.ID)
}

func TestDialogState_String(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "editing", Editing.String())
}
