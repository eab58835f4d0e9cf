package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddLineMerges(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := &Cart{}

	c.AddLine("a", 2, now)
	c.AddLine("b", 1, now)
	c.AddLine("a", 3, now.Add(time.Minute))

	require.Len(t, c.Lines, 2)
	line, ok := c.Line("a")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, []string{"a", "b"}, c.ItemIDs())
	assert.Equal(t, now.Add(time.Minute), c.UpdatedAt)
}

func TestCartSetQuantity(t *testing.T) {
	now := time.Now()

	t.Run("overwrites quantity", func(t *testing.T) {
		c := &Cart{Lines: []CartLine{{ItemID: "a", Quantity: 5}}}
		require.True(t, c.SetQuantity("a", 2, now))
		line, _ := c.Line("a")
		assert.Equal(t, 2, line.Quantity)
	})

	t.Run("zero removes line", func(t *testing.T) {
		c := &Cart{Lines: []CartLine{{ItemID: "a", Quantity: 5}, {ItemID: "b", Quantity: 1}}}
		require.True(t, c.SetQuantity("a", 0, now))
		assert.Equal(t, []string{"b"}, c.ItemIDs())
	})

	t.Run("negative removes line", func(t *testing.T) {
		c := &Cart{Lines: []CartLine{{ItemID: "a", Quantity: 5}}}
		require.True(t, c.SetQuantity("a", -3, now))
		assert.Empty(t, c.Lines)
	})

	t.Run("absent line reports false", func(t *testing.T) {
		c := &Cart{Lines: []CartLine{{ItemID: "a", Quantity: 5}}}
		assert.False(t, c.SetQuantity("zzz", 4, now))
		assert.Len(t, c.Lines, 1)
	})
}

func TestCartRemoveLine(t *testing.T) {
	now := time.Now()
	c := &Cart{Lines: []CartLine{{ItemID: "a", Quantity: 1}, {ItemID: "b", Quantity: 2}}}

	assert.False(t, c.RemoveLine("missing", now))
	assert.Len(t, c.Lines, 2)

	assert.True(t, c.RemoveLine("a", now))
	assert.Equal(t, []string{"b"}, c.ItemIDs())
}

func TestBuildCartView(t *testing.T) {
	c := &Cart{Lines: []CartLine{
		{ItemID: "a", Quantity: 2},
		{ItemID: "gone", Quantity: 4},
		{ItemID: "b", Quantity: 3},
	}}
	catalog := map[string]Item{
		"a": {ID: "a", Title: "Mug", Price: 10.10},
		"b": {ID: "b", Title: "Tea", Price: 0.20},
	}

	view := BuildCartView(c, catalog)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "a", view.Items[0].Product.ID)
	assert.Equal(t, 20.2, view.Items[0].LineTotal)
	assert.Equal(t, "b", view.Items[1].Product.ID)
	assert.Equal(t, 0.6, view.Items[1].LineTotal)
	assert.Equal(t, 20.8, view.Total)
	assert.Equal(t, 1, view.Unavailable)
}

func TestBuildCartViewEmpty(t *testing.T) {
	view := BuildCartView(&Cart{}, nil)

	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)
	assert.Zero(t, view.Unavailable)
}
