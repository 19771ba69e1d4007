package controller

import (
	"context"
	"testing"

	"ordinance-go/internal/help"
	"ordinance-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers_CoverEveryEvent(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, &fakeSink{})
	handlers := c.Handlers()

	for _, name := range []EventName{
		EventSearch, EventSave, EventUpload, EventSelectFile,
		EventCompare, EventHelp, EventCloseModal, EventDismiss,
	} {
		assert.Contains(t, handlers, name)
	}
}

func TestHandlers_InvokedDirectly(t *testing.T) {
	api := &fakeAPI{searchResp: &model.SearchResponse{Results: []model.SearchResult{{Name: "a"}}}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("a")

	require.NoError(t, c.Handlers()[EventSearch](context.Background(), Event{}))
	assert.Equal(t, []string{"a"}, api.searchQueries)

	require.NoError(t, c.Handlers()[EventHelp](context.Background(), Event{Provider: help.OpenAI}))
	assert.Equal(t, ModalOpen, c.State().Modal)

	require.NoError(t, c.Handlers()[EventDismiss](context.Background(), Event{Target: ModalOverlayTarget}))
	assert.Equal(t, ModalClosed, c.State().Modal)
}

func TestDispatch_AppliesInputsAndClearsAlert(t *testing.T) {
	api := &fakeAPI{doc: &model.Document{Body: []byte("x")}}
	c, _ := newTestController(api, &fakeSink{})

	err := c.Dispatch(context.Background(), Event{Name: EventSave, Inputs: &Inputs{}})
	require.True(t, IsValidation(err))
	assert.Equal(t, msgQueryRequired, c.State().Alert)

	err = c.Dispatch(context.Background(), Event{Name: EventSave, Inputs: &Inputs{Query: "도서관", GeminiKey: " g "}})
	require.NoError(t, err)
	st := c.State()
	assert.Empty(t, st.Alert)
	assert.Equal(t, "g", st.GeminiKey)
	assert.Equal(t, []string{"도서관"}, api.saveQueries)
}

func TestDispatch_UnknownEvent(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, &fakeSink{})
	assert.ErrorIs(t, c.Dispatch(context.Background(), Event{Name: "explode"}), ErrUnknownEvent)
}

func TestDispatch_SelectThenCompare(t *testing.T) {
	api := &fakeAPI{doc: &model.Document{Body: []byte("x")}}
	sink := &fakeSink{}
	c, _ := newTestController(api, sink)

	require.NoError(t, c.Dispatch(context.Background(), Event{Name: EventSelectFile, File: pdf()}))
	require.NoError(t, c.Dispatch(context.Background(), Event{
		Name:   EventCompare,
		Inputs: &Inputs{Query: "주차장", OpenAIKey: "sk"},
	}))
	require.Len(t, api.compares, 1)
	assert.Equal(t, "sk", api.compares[0].OpenAIAPIKey)
	assert.Len(t, sink.names, 1)
}

func TestDispatch_CompareWithAttachedFile(t *testing.T) {
	api := &fakeAPI{doc: &model.Document{Body: []byte("x")}}
	sink := &fakeSink{}
	c, _ := newTestController(api, sink)

	require.NoError(t, c.Dispatch(context.Background(), Event{
		Name:   EventCompare,
		Inputs: &Inputs{Query: "주차장", OpenAIKey: "sk"},
		File:   pdf(),
	}))
	require.Len(t, api.compares, 1)
	assert.Equal(t, "draft.pdf", api.compares[0].PDF.Name)
	assert.Equal(t, "draft.pdf", c.State().SelectedFileName())
	assert.Len(t, sink.names, 1)
}

func TestDispatch_CompareRejectsAttachedNonPDF(t *testing.T) {
	api := &fakeAPI{doc: &model.Document{Body: []byte("x")}}
	c, _ := newTestController(api, &fakeSink{})

	err := c.Dispatch(context.Background(), Event{
		Name:   EventCompare,
		Inputs: &Inputs{Query: "주차장", OpenAIKey: "sk"},
		File:   &model.Attachment{Name: "notes.txt", Data: []byte("x")},
	})
	require.True(t, IsValidation(err))
	assert.Equal(t, msgPDFOnly, c.State().Alert)
	assert.Empty(t, api.compares)
}
