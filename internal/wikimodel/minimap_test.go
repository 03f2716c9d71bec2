package wikimodel_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/wikimodel"
)

func TestNewMiniMapRequiresRoot(t *testing.T) {
	_, err := wikimodel.NewMiniMap(uuid.New(), nil)
	assert.Error(t, err)
}

func TestMiniMapReplace(t *testing.T) {
	root := &wikimodel.MiniMapNode{Title: "root", Nodes: []*wikimodel.MiniMapNode{
		{Title: "child", URL: "internal/scanner"},
	}}
	m, err := wikimodel.NewMiniMap(uuid.New(), root)
	require.NoError(t, err)

	newRoot := &wikimodel.MiniMapNode{Title: "regenerated"}
	require.NoError(t, m.Replace(newRoot))
	assert.Equal(t, "regenerated", m.Root.Title)

	assert.Error(t, m.Replace(nil))
}
