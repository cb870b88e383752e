package editor

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

func testRoot() nbt.Root {
	return nbt.Root{Compound: nbt.NewCompound().
		Put("LevelName", nbt.String("My World")).
		Put("GameType", nbt.Int(1)).
		Put("LastPlayed", nbt.Long(1700000000)).
		Put("commandsEnabled", nbt.Byte(0)).
		Put("rainLevel", nbt.Float(0)).
		Put("abilities", nbt.NewCompound().
			Put("mayfly", nbt.Byte(0)).
			Put("flySpeed", nbt.Float(0.05))).
		Put("lastOpenedWithVersion", nbt.NewList(nbt.TagInt,
			nbt.Int(1), nbt.Int(21), nbt.Int(44)))}
}

func testEditor(t *testing.T) *Editor {
	t.Helper()
	e, err := New(&leveldat.File{
		Format:  leveldat.FormatBedrock,
		Version: leveldat.DefaultVersion,
		Root:    testRoot(),
	})
	require.NoError(t, err)
	return e
}

func TestGet(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	got, err := e.Get("LevelName")
	require.NoError(t, err)
	assert.Equal(t, nbt.String("My World"), got)

	got, err = e.Get("abilities.mayfly")
	require.NoError(t, err)
	assert.Equal(t, nbt.Byte(0), got)

	got, err = e.Get("lastOpenedWithVersion[1]")
	require.NoError(t, err)
	assert.Equal(t, nbt.Int(21), got)

	_, err = e.Get("lastOpenedWithVersion[3]")
	require.ErrorContains(t, err, "out of range")

	_, err = e.Get("LevelName.x")
	require.ErrorContains(t, err, "not a compound")

	_, err = e.Get("GameType[0]")
	require.ErrorContains(t, err, "not a list")
}

func TestGetSuggestsSimilarNames(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	_, err := e.Get("LevelNam")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.NotEmpty(t, nf.Suggestions)
	assert.Equal(t, "LevelName", nf.Suggestions[0])
	assert.Contains(t, err.Error(), "did you mean")

	// Missing intermediate segments get suggestions too.
	_, err = e.Get("abilitis.mayfly")
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Suggestions, "abilities")
}

func TestSetPreservesKind(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.Set("GameType", nbt.Int(2)))
	got, err := e.Get("GameType")
	require.NoError(t, err)
	assert.Equal(t, nbt.Int(2), got)

	err = e.Set("GameType", nbt.String("creative"))
	var km *KindMismatchError
	require.ErrorAs(t, err, &km)
	assert.Equal(t, nbt.TagInt, km.Want)
	assert.Equal(t, nbt.TagString, km.Got)

	err = e.Set("lastOpenedWithVersion", nbt.NewList(nbt.TagString, nbt.String("x")))
	require.ErrorContains(t, err, "list elements")

	require.NoError(t, e.Set("lastOpenedWithVersion[0]", nbt.Int(2)))
	err = e.Set("lastOpenedWithVersion[0]", nbt.Short(2))
	require.ErrorAs(t, err, &km)
}

func TestSetString(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.SetString("GameType", "2"))
	require.NoError(t, e.SetString("commandsEnabled", "true"))
	require.NoError(t, e.SetString("LastPlayed", "123"))
	require.NoError(t, e.SetString("rainLevel", "0.5"))
	require.NoError(t, e.SetString("LevelName", "Renamed World"))

	assertTag := func(path string, want nbt.Tag) {
		t.Helper()
		got, err := e.Get(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assertTag("GameType", nbt.Int(2))
	assertTag("commandsEnabled", nbt.Byte(1))
	assertTag("LastPlayed", nbt.Long(123))
	assertTag("rainLevel", nbt.Float(0.5))
	assertTag("LevelName", nbt.String("Renamed World"))

	require.Error(t, e.SetString("GameType", "not a number"))
	require.Error(t, e.SetString("commandsEnabled", "900"))
}

func TestChangesTracking(t *testing.T) {
	t.Parallel()
	e := testEditor(t)
	require.False(t, e.Modified())

	// Setting the current value is not a change.
	require.NoError(t, e.Set("GameType", nbt.Int(1)))
	require.False(t, e.Modified())

	require.NoError(t, e.Set("GameType", nbt.Int(2)))
	require.NoError(t, e.Set("abilities.mayfly", nbt.Byte(1)))
	require.True(t, e.Modified())

	changes := e.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, "GameType", changes[0].Path)
	assert.Equal(t, nbt.Int(1), changes[0].From)
	assert.Equal(t, nbt.Int(2), changes[0].To)
	assert.Equal(t, "abilities.mayfly", changes[1].Path)

	// A later edit folds into the first record.
	require.NoError(t, e.Set("GameType", nbt.Int(3)))
	changes = e.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, nbt.Int(1), changes[0].From)
	assert.Equal(t, nbt.Int(3), changes[0].To)

	// Editing back to the pristine value clears the record.
	require.NoError(t, e.Set("GameType", nbt.Int(1)))
	require.NoError(t, e.Set("abilities.mayfly", nbt.Byte(0)))
	require.False(t, e.Modified())
}

func TestAddRemove(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.Add("cheatsEnabled", nbt.Byte(1)))
	got, err := e.Get("cheatsEnabled")
	require.NoError(t, err)
	assert.Equal(t, nbt.Byte(1), got)

	err = e.Add("cheatsEnabled", nbt.Byte(0))
	require.ErrorContains(t, err, "already exists")

	changes := e.Changes()
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].From)

	// Adding then removing cancels out.
	require.NoError(t, e.Remove("cheatsEnabled"))
	require.False(t, e.Modified())
	_, err = e.Get("cheatsEnabled")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, e.Remove("GameType"))
	changes = e.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, nbt.Int(1), changes[0].From)
	assert.Nil(t, changes[0].To)
}

func TestAddListElement(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.Add("lastOpenedWithVersion[3]", nbt.Int(7)))
	got, err := e.Get("lastOpenedWithVersion[3]")
	require.NoError(t, err)
	assert.Equal(t, nbt.Int(7), got)

	err = e.Add("lastOpenedWithVersion[9]", nbt.Int(8))
	require.ErrorContains(t, err, "out of range")

	var km *KindMismatchError
	err = e.Add("lastOpenedWithVersion[0]", nbt.Byte(1))
	require.ErrorAs(t, err, &km)
}

func TestAddIntoEmptyListAdoptsKind(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.Add("scenarios", nbt.NewList(nbt.TagEnd)))
	require.NoError(t, e.Add("scenarios[0]", nbt.String("skyblock")))

	got, err := e.Get("scenarios")
	require.NoError(t, err)
	l, ok := got.(*nbt.List)
	require.True(t, ok)
	assert.Equal(t, nbt.TagString, l.ElementKind())
	assert.Equal(t, 1, l.Len())
}

func TestRevert(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.Set("GameType", nbt.Int(2)))
	require.NoError(t, e.Revert("GameType"))
	got, err := e.Get("GameType")
	require.NoError(t, err)
	assert.Equal(t, nbt.Int(1), got)
	require.False(t, e.Modified())

	require.Error(t, e.Revert("GameType"))

	require.NoError(t, e.Remove("LevelName"))
	require.NoError(t, e.Revert("LevelName"))
	got, err = e.Get("LevelName")
	require.NoError(t, err)
	assert.Equal(t, nbt.String("My World"), got)

	require.NoError(t, e.Add("newField", nbt.Byte(1)))
	require.NoError(t, e.Revert("newField"))
	_, err = e.Get("newField")
	require.Error(t, err)
}

func TestRevertAllRestoresOrder(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	require.NoError(t, e.Set("GameType", nbt.Int(2)))
	require.NoError(t, e.Remove("LevelName"))
	require.NoError(t, e.Add("newField", nbt.Byte(1)))

	e.RevertAll()
	require.False(t, e.Modified())
	require.True(t, e.Root().Equal(testRoot()))
}

func TestSaveRefusesRecovered(t *testing.T) {
	t.Parallel()
	e := testEditor(t)
	e.File().Recovered = true

	err := e.Save(filepath.Join(t.TempDir(), "level.dat"), false)
	require.ErrorIs(t, err, ErrRecovered)
	require.True(t, e.Recovered())

	e.MarkTrusted()
	require.False(t, e.Recovered())
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()
	e := testEditor(t)
	require.NoError(t, e.Set("GameType", nbt.Int(2)))

	path := filepath.Join(t.TempDir(), "level.dat")
	require.NoError(t, e.Save(path, false))
	require.False(t, e.Modified())

	// Saving makes the edited tree the new pristine state.
	require.NoError(t, e.Set("GameType", nbt.Int(2)))
	require.False(t, e.Modified())

	f, err := leveldat.Loader{}.LoadFile(path)
	require.NoError(t, err)
	v, ok := f.Root.Compound.Int("GameType")
	require.True(t, ok)
	assert.Equal(t, int32(2), v)
}

func TestNewRequiresTree(t *testing.T) {
	t.Parallel()
	_, err := New(nil)
	require.Error(t, err)
	_, err = New(&leveldat.File{})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrRecovered))
}
