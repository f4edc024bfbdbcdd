package yml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_PutKeepsOrder(t *testing.T) {
	doc := NewDocument().Append(
		NewMap().
			Put("zulu", "last in the alphabet").
			Put("alpha", []string{"one", "two"}).
			Put("mike", 3),
	)
	data, err := doc.Marshal()
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.Index(text, "zulu") < strings.Index(text, "alpha"))
	assert.True(t, strings.Index(text, "alpha") < strings.Index(text, "mike"))
	assert.Contains(t, text, "- one")
	assert.Contains(t, text, "mike: 3")
}

func TestNode_PutRejectsNonMap(t *testing.T) {
	assert.Panics(t, func() {
		NewSlice().Put("key", "value")
	})
	assert.Panics(t, func() {
		NewMap().Append("value")
	})
}
