package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio/errs"
)

func TestBeginEditCopiesRecord(t *testing.T) {
	record := ProjectRecord{
		ID:          "7",
		Title:       "Portfolio",
		Description: "site",
		TechStack:   "Go, React",
		Featured:    true,
		SortOrder:   4,
		ImageURL:    "/uploads/a.png",
	}
	form := NewEditForm()
	form.AttachImage(&ImageAttachment{Filename: "stale.png"})
	form.BeginEdit(record)

	require.NoError(t, form.SetField("title", "Changed"))
	assert.Equal(t, "Portfolio", record.Title)

	state := form.Snapshot()
	assert.Equal(t, "7", state.TargetID)
	assert.Equal(t, "Changed", state.Title)
	assert.Equal(t, "/uploads/a.png", state.ImageURL)
	assert.Nil(t, state.PendingImage)
	assert.True(t, state.Featured)
	assert.Equal(t, 4, state.SortOrder)
}

func TestSetFieldCoercion(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		check   func(FormState) bool
		invalid bool
	}{
		{"checkbox on", "featured", "on", func(s FormState) bool { return s.Featured }, false},
		{"checkbox true", "featured", "true", func(s FormState) bool { return s.Featured }, false},
		{"checkbox empty", "featured", "", func(s FormState) bool { return !s.Featured }, false},
		{"checkbox garbage", "featured", "maybe", nil, true},
		{"number", "sortOrder", " 12 ", func(s FormState) bool { return s.SortOrder == 12 }, false},
		{"number empty", "sortOrder", "", func(s FormState) bool { return s.SortOrder == 0 }, false},
		{"number garbage", "sortOrder", "twelve", nil, true},
		{"unknown", "color", "blue", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewEditForm()
			require.NoError(t, form.SetField("sortOrder", "5"))
			err := form.SetField(tt.field, tt.value)
			if tt.invalid {
				assert.True(t, errs.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.check(form.Snapshot()))
		})
	}
}

func TestValidateRequiresTitleAndDescription(t *testing.T) {
	form := NewEditForm()
	require.NoError(t, form.SetField("title", "   "))
	require.NoError(t, form.SetField("description", "d"))

	err := form.Validate()
	var clientErr *errs.ClientErr
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "title", clientErr.Field)

	require.NoError(t, form.SetField("title", "t"))
	require.NoError(t, form.SetField("description", ""))
	require.ErrorAs(t, form.Validate(), &clientErr)
	assert.Equal(t, "description", clientErr.Field)
}

func TestSnapshotIsIsolated(t *testing.T) {
	form := NewEditForm()
	img := &ImageAttachment{Filename: "a.png", Data: []byte("abc")}
	form.AttachImage(img)
	img.Data[0] = 'z'

	snapshot := form.Snapshot()
	snapshot.PendingImage.Data[1] = 'z'

	assert.Equal(t, "abc", string(form.Snapshot().PendingImage.Data))
}

func TestSplitListAndDisplayOrder(t *testing.T) {
	assert.Equal(t, []string{"Go", "React", "Postgres"}, SplitList(" Go, React,, Postgres ,"))
	assert.Nil(t, SplitList(" , "))

	records := []ProjectRecord{
		{ID: "a", SortOrder: 2},
		{ID: "b", SortOrder: 1, Featured: true},
		{ID: "c", SortOrder: 1},
		{ID: "d", SortOrder: 0, Featured: true},
	}
	ordered := DisplayOrder(records)

	var ids []string
	for _, r := range ordered {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids)
	assert.Equal(t, "a", records[0].ID)
}

func TestCacheReplaceAllIsCopy(t *testing.T) {
	cache := NewCache()
	assert.Nil(t, cache.Get())

	records := []ProjectRecord{{ID: "1", Title: "One"}}
	cache.ReplaceAll(records)
	records[0].Title = "mutated"

	got := cache.Get()
	got[0].Title = "also mutated"
	assert.Equal(t, "One", cache.Get()[0].Title)
}
