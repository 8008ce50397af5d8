package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/stagefx/transition"
)

func TestCatalog(t *testing.T) {
	ids := IDs()
	assert.Equal(t, []transition.PageID{Home, About, Services, Work, Blog, Contact}, ids)

	for _, id := range ids {
		p := Lookup(id)
		assert.Equal(t, id, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.True(t, Known(id))
	}
}

func TestLookup_Unknown(t *testing.T) {
	p := Lookup("pricing")
	assert.Equal(t, transition.PageID("pricing"), p.ID)
	assert.Equal(t, "Not found", p.Title)
	assert.False(t, Known("pricing"))
}

func TestPages_ReturnsCopy(t *testing.T) {
	p := Pages()
	p[0].Title = "changed"
	assert.NotEqual(t, "changed", Pages()[0].Title)
}
