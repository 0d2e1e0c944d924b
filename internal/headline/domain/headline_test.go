package domain

import (
	"testing"
	"time"

	sharedDomain "github.com/davicafu/newslab/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestHeadline(title string) *Headline {
	return &Headline{
		ID:             uuid.New(),
		Title:          title,
		URL:            "https://example.com/" + title,
		Source:         "bbc-news",
		Categories:     []CategoryRef{"politics"},
		EventCountries: []CountryRef{"es"},
		PublishedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC),
	}
}

// -------------------- Headline.Equal --------------------

func TestHeadlineEqual_AllFields(t *testing.T) {
	h := newTestHeadline("uno")
	copied := *h
	assert.True(t, h.Equal(&copied))

	copied.Title = "otro"
	assert.False(t, h.Equal(&copied))

	copied = *h
	copied.Categories = []CategoryRef{"tech"}
	assert.False(t, h.Equal(&copied))

	copied = *h
	copied.PublishedAt = h.PublishedAt.Add(time.Second)
	assert.False(t, h.Equal(&copied))
}

func TestHeadlineEqual_Nil(t *testing.T) {
	h := newTestHeadline("uno")
	assert.False(t, h.Equal(nil))
	var nilHeadline *Headline
	assert.True(t, nilHeadline.Equal(nil))
}

// -------------------- NewPage (invariantes) --------------------

func TestNewPage_CursorIsLastItemID(t *testing.T) {
	h1 := newTestHeadline("uno")
	h2 := newTestHeadline("dos")

	page := NewPage([]*Headline{h1, h2}, 5)
	assert.NotNil(t, page.Cursor)
	assert.Equal(t, h2.ID, *page.Cursor)
}

func TestNewPage_EmptyListHasNoCursor(t *testing.T) {
	page := NewPage(nil, 5)
	assert.Nil(t, page.Cursor)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestNewPage_HasMoreOnlyOnExactLimit(t *testing.T) {
	items := []*Headline{newTestHeadline("uno"), newTestHeadline("dos")}

	// k == limit → señal de continuación
	assert.True(t, NewPage(items, 2).HasMore)

	// k < limit → no hay más
	assert.False(t, NewPage(items, 3).HasMore)
}

func TestNewPage_AbsentLimitNeverHasMore(t *testing.T) {
	// Con límite ausente (0) la heurística no puede dispararse, ni siquiera
	// con resultados no vacíos.
	items := []*Headline{newTestHeadline("uno"), newTestHeadline("dos")}
	page := NewPage(items, 0)
	assert.False(t, page.HasMore)
	assert.NotNil(t, page.Cursor)
}

// -------------------- Page.Equal --------------------

func TestPageEqual_Structural(t *testing.T) {
	h1 := newTestHeadline("uno")
	h2 := newTestHeadline("dos")

	a := NewPage([]*Headline{h1, h2}, 0)
	b := NewPage([]*Headline{h1, h2}, 0)
	assert.True(t, a.Equal(b))

	// Mismos items, distinto HasMore
	c := NewPage([]*Headline{h1, h2}, 2)
	assert.False(t, a.Equal(c))

	// Item modificado campo a campo
	modified := *h2
	modified.Title = "dos-bis"
	d := NewPage([]*Headline{h1, &modified}, 0)
	assert.False(t, a.Equal(d))

	// Distinta longitud
	e := NewPage([]*Headline{h1}, 0)
	assert.False(t, a.Equal(e))
}

func TestPageEqual_Nil(t *testing.T) {
	var nilPage *Page
	assert.True(t, nilPage.Equal(nil))
	assert.False(t, NewPage(nil, 0).Equal(nil))
}

// -------------------- Filter --------------------

func TestFilterToConditions_PresentFieldsOnly(t *testing.T) {
	f := Filter{
		Categories: []CategoryRef{"politics", "economy"},
		Sources:    []SourceRef{"bbc-news"},
	}

	conds := f.ToConditions()
	assert.Len(t, conds, 2)

	assert.Equal(t, "categories", conds[0].Field)
	assert.Equal(t, sharedDomain.OpIn, conds[0].Op)
	assert.Equal(t, []CategoryRef{"politics", "economy"}, conds[0].Value)

	assert.Equal(t, "source", conds[1].Field)
	assert.Equal(t, sharedDomain.OpIn, conds[1].Op)
}

func TestFilterToConditions_EmptyFilter(t *testing.T) {
	assert.Empty(t, Filter{}.ToConditions())
	assert.True(t, Filter{}.IsEmpty())
}
