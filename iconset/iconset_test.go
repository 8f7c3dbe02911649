package iconset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "prefix": "demo",
  "info": {"name": "Demo", "author": {"name": "Someone"}},
  "icons": {
    "home": {"body": "<path d=\"M1 1\"/>", "width": 24},
    "arrow-left": {"body": "<path d=\"M2 2\"/>", "rotate": 1, "hFlip": true},
    "secret": {"body": "<g/>", "hidden": true}
  },
  "aliases": {
    "house": {"parent": "home"},
    "arrow-right": {"parent": "arrow-left", "hFlip": true},
    "arrow-down": {"parent": "arrow-right", "rotate": 3, "vFlip": true, "height": 10},
    "orphan": {"parent": "missing"},
    "secret-alias": {"parent": "secret"}
  },
  "chars": {"e000": "home", "e001": "arrow-down", "e002": "orphan"},
  "categories": {
    "Buildings": ["home", "house", "secret"],
    "Arrows": ["arrow-left", "arrow-right"],
    "Ghosts": ["nothing"]
  },
  "width": 20,
  "height": 20
}`

func loadFixture(t *testing.T) *IconSet {
	t.Helper()
	s, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)
	return s
}

func aliasChain(n int) Record {
	rec := Record{
		Prefix: "chain",
		Icons:  []Entry[Icon]{{Name: "base", Value: Icon{Body: "<g/>"}}},
	}
	parent := "base"
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("alias%d", i)
		rec.Aliases = append(rec.Aliases, Entry[Alias]{Name: name, Value: Alias{Parent: parent}})
		parent = name
	}
	return rec
}

func TestListAndCountSkipHidden(t *testing.T) {
	s := loadFixture(t)
	assert.Equal(t, []string{"home", "arrow-left"}, s.List())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "demo", s.Prefix())
	assert.Equal(t, []string{"house", "arrow-right", "arrow-down", "orphan", "secret-alias"}, s.Aliases())

	assert.True(t, s.Exists("secret"))
	assert.True(t, s.Exists("secret-alias"))
	secret := s.Resolve("secret")
	require.NotNil(t, secret)
	assert.False(t, secret.Hidden)
	assert.Equal(t, "<g/>", secret.Body)
}

func TestExists(t *testing.T) {
	s := loadFixture(t)
	assert.True(t, s.Exists("home"))
	assert.True(t, s.Exists("arrow-down"))
	assert.False(t, s.Exists("orphan"))
	assert.False(t, s.Exists("nothing"))
}

func TestResolveAppliesDeltas(t *testing.T) {
	s := loadFixture(t)

	left := s.Resolve("arrow-left")
	require.NotNil(t, left)
	assert.Equal(t, 1, *left.Rotate)
	assert.True(t, *left.HFlip)
	assert.Nil(t, left.VFlip)

	right := s.Resolve("arrow-right")
	require.NotNil(t, right)
	assert.Equal(t, 1, *right.Rotate)
	assert.False(t, *right.HFlip, "flips toggle")

	down := s.Resolve("arrow-down")
	require.NotNil(t, down)
	assert.Equal(t, 0, *down.Rotate, "(1+3) mod 4")
	assert.False(t, *down.HFlip)
	assert.True(t, *down.VFlip)
	assert.Equal(t, 10.0, *down.Height)
	assert.Equal(t, `<path d="M2 2"/>`, down.Body)

	house := s.Resolve("house")
	require.NotNil(t, house)
	assert.Equal(t, 24.0, *house.Width)
}

func TestResolveDoesNotMutate(t *testing.T) {
	s := loadFixture(t)
	first := s.Resolve("arrow-down")
	require.NotNil(t, first)
	*first.Rotate = 2
	first.Body = "changed"

	again := s.Resolve("arrow-down")
	assert.Equal(t, 0, *again.Rotate)
	assert.Equal(t, `<path d="M2 2"/>`, again.Body)

	rec := s.Export(false)
	assert.Equal(t, 1, *rec.Icons[1].Value.Rotate)
}

func TestResolveDepthBound(t *testing.T) {
	s := New(aliasChain(7))
	for i := 1; i <= 6; i++ {
		assert.NotNil(t, s.Resolve(fmt.Sprintf("alias%d", i)), "alias%d", i)
	}
	assert.Nil(t, s.Resolve("alias7"))
	assert.False(t, s.Exists("alias7"))

	assert.NotNil(t, s.ResolveDepth("alias7", 6))
	assert.Nil(t, s.ResolveDepth("alias1", -1))
	assert.NotNil(t, s.ResolveDepth("base", 0))
	assert.NotNil(t, s.ResolveDepth("alias1", 0))
	assert.Nil(t, s.ResolveDepth("alias2", 0))
}

func TestResolveWithOptions(t *testing.T) {
	s, err := NewWithOptions(aliasChain(7), NewOptions().WithMaxDepth(6))
	require.NoError(t, err)
	assert.NotNil(t, s.Resolve("alias7"))

	_, err = NewWithOptions(aliasChain(1), NewOptions().WithMaxDepth(-1))
	assert.Error(t, err)
}

func TestResolveCycle(t *testing.T) {
	s := New(Record{
		Icons: []Entry[Icon]{{Name: "icon", Value: Icon{Body: "<g/>"}}},
		Aliases: []Entry[Alias]{
			{Name: "a", Value: Alias{Parent: "b"}},
			{Name: "b", Value: Alias{Parent: "a"}},
			{Name: "self", Value: Alias{Parent: "self"}},
		},
	})
	assert.Nil(t, s.Resolve("a"))
	assert.Nil(t, s.Resolve("self"))
	assert.False(t, s.Exists("b"))
}

func TestResolveFull(t *testing.T) {
	s := loadFixture(t)

	home := s.ResolveFull("home")
	require.NotNil(t, home)
	assert.Equal(t, 24.0, *home.Width)
	assert.Equal(t, 20.0, *home.Height, "set default")
	assert.Equal(t, 0.0, *home.Left, "global default")
	assert.Equal(t, 0, *home.Rotate)
	assert.False(t, *home.HFlip)

	plain := New(aliasChain(0)).ResolveFull("base")
	require.NotNil(t, plain)
	assert.Equal(t, 16.0, *plain.Width)
	assert.Equal(t, 16.0, *plain.Height)

	assert.Nil(t, s.ResolveFull("orphan"))
}

func TestRemoveCascades(t *testing.T) {
	s := loadFixture(t)
	assert.Equal(t, 3, s.Remove("arrow-left"), "icon, alias and variation")
	assert.False(t, s.Exists("arrow-right"))
	assert.False(t, s.Exists("arrow-down"))
	assert.Equal(t, []string{"home"}, s.List())

	for _, c := range s.Chars() {
		assert.NotEqual(t, "arrow-down", c.Value)
	}
	for _, c := range s.Categories() {
		if c.Name == "Arrows" {
			assert.Empty(t, c.Value)
		}
	}
}

func TestRemoveAliasOnlyTakesDependents(t *testing.T) {
	s := loadFixture(t)
	assert.Equal(t, 2, s.Remove("arrow-right"))
	assert.True(t, s.Exists("arrow-left"))
	assert.False(t, s.Exists("arrow-down"))
	assert.Equal(t, 0, s.Remove("arrow-right"))
	assert.Equal(t, 0, s.Remove("unknown"))
}

func TestRemoveCycleTerminates(t *testing.T) {
	s := New(Record{Aliases: []Entry[Alias]{
		{Name: "a", Value: Alias{Parent: "b"}},
		{Name: "b", Value: Alias{Parent: "a"}},
	}})
	assert.Equal(t, 2, s.Remove("a"))
	assert.Empty(t, s.Aliases())
}

func TestRename(t *testing.T) {
	s := loadFixture(t)
	before := s.Resolve("arrow-down")

	assert.False(t, s.Rename("arrow-left", "home"), "occupied by icon")
	assert.False(t, s.Rename("arrow-left", "house"), "occupied by alias")
	assert.False(t, s.Rename("unknown", "fresh"))
	assert.False(t, s.Rename("home", "home"))
	assert.Equal(t, []string{"home", "arrow-left"}, s.List(), "failed renames do not mutate")

	require.True(t, s.Rename("arrow-left", "chevron"))
	assert.Equal(t, []string{"home", "chevron"}, s.List(), "position kept")
	assert.False(t, s.Exists("arrow-left"))
	assert.Equal(t, before, s.Resolve("arrow-down"))

	rec := s.Export(false)
	assert.Equal(t, "chevron", rec.Aliases[1].Value.Parent)
	assert.Equal(t, []string{"chevron"}, rec.Categories[1].Value)

	require.True(t, s.Rename("arrow-down", "arrow-south"))
	assert.Equal(t, Entry[string]{Name: "e001", Value: "arrow-south"}, s.Chars()[1])
}

func TestImportDropsAliasCategoryMembers(t *testing.T) {
	s := loadFixture(t)
	cats := s.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, []string{"home", "secret"}, cats[0].Value)
	assert.Equal(t, []string{"arrow-left"}, cats[1].Value)
}

func TestImportIconWinsOverAlias(t *testing.T) {
	s := New(Record{
		Icons:   []Entry[Icon]{{Name: "x", Value: Icon{Body: "<g/>"}}},
		Aliases: []Entry[Alias]{{Name: "x", Value: Alias{Parent: "y"}}},
	})
	assert.Empty(t, s.Aliases())
	assert.NotNil(t, s.Resolve("x"))
}

func TestExportValidated(t *testing.T) {
	s := loadFixture(t)
	rec, drops := s.ExportReport(true)

	var aliases []string
	for _, a := range rec.Aliases {
		aliases = append(aliases, a.Name)
	}
	assert.Equal(t, []string{"house", "arrow-right", "arrow-down", "secret-alias"}, aliases)
	assert.Len(t, rec.Icons, 3, "hidden icons are exported")
	assert.Equal(t, []Entry[string]{
		{Name: "e000", Value: "home"},
		{Name: "e001", Value: "arrow-down"},
	}, rec.Chars)
	assert.Equal(t, []Entry[[]string]{
		{Name: "Buildings", Value: []string{"home"}},
		{Name: "Arrows", Value: []string{"arrow-left"}},
	}, rec.Categories)

	assert.Equal(t, []Drop{
		{Kind: DropAlias, Name: "orphan", Target: "missing", Reason: ReasonMissingParent},
		{Kind: DropChar, Name: "e002", Target: "orphan", Reason: ReasonMissingParent},
		{Kind: DropCategory, Name: "Buildings", Target: "secret", Reason: ReasonHidden},
		{Kind: DropCategory, Name: "Ghosts", Target: "nothing", Reason: ReasonMissing},
		{Kind: DropCategory, Name: "Ghosts", Reason: ReasonEmpty},
	}, drops)

	assert.Equal(t, rec, s.Export(true))
}

func TestExportRaw(t *testing.T) {
	s := loadFixture(t)
	rec, drops := s.ExportReport(false)
	assert.Nil(t, drops)
	assert.Len(t, rec.Aliases, 5)
	assert.Equal(t, "missing", rec.Aliases[3].Value.Parent)
	assert.Len(t, rec.Chars, 3)
	assert.Len(t, rec.Categories, 3)
}

func TestExportReasons(t *testing.T) {
	rec := aliasChain(7)
	rec.Aliases = append(rec.Aliases,
		Entry[Alias]{Name: "loop-a", Value: Alias{Parent: "loop-b"}},
		Entry[Alias]{Name: "loop-b", Value: Alias{Parent: "loop-a"}},
	)
	rec.Categories = []Entry[[]string]{{Name: "All", Value: []string{"base", "alias1"}}}

	_, drops := New(rec).ExportReport(true)
	assert.Equal(t, []Drop{
		{Kind: DropAlias, Name: "alias7", Target: "alias6", Reason: ReasonTooDeep},
		{Kind: DropAlias, Name: "loop-a", Target: "loop-b", Reason: ReasonCycle},
		{Kind: DropAlias, Name: "loop-b", Target: "loop-a", Reason: ReasonCycle},
	}, drops)
}

func TestExportRoundTrip(t *testing.T) {
	s := loadFixture(t)

	var sb strings.Builder
	require.NoError(t, s.Export(false).Encode(&sb))
	out := sb.String()

	assert.Contains(t, out, `"body": "<path d=\"M1 1\"/>"`, "no HTML escaping")
	assert.Contains(t, out, `"author": {`)
	assert.Less(t, strings.Index(out, `"info"`), strings.Index(out, `"icons"`))
	assert.Less(t, strings.Index(out, `"home"`), strings.Index(out, `"arrow-left"`))
	assert.Less(t, strings.Index(out, `"arrow-left"`), strings.Index(out, `"secret"`))

	again, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, s.Export(false), again.Export(false))
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		``,
		`[]`,
		`{"icons": []}`,
		`{"icons": {"a": {"body": 1}}}`,
		`{"prefix": "x"`,
	} {
		_, err := Parse(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestDuplicates(t *testing.T) {
	s := New(Record{
		Icons: []Entry[Icon]{
			{Name: "a", Value: Icon{Body: "<g/>"}},
			{Name: "b", Value: Icon{Body: "<path/>"}},
			{Name: "c", Value: Icon{Body: "<g/>", Props: Props{Width: ptr(16.0)}}},
			{Name: "d", Value: Icon{Body: "<g/>", Props: Props{Rotate: ptr(1)}}},
			{Name: "e", Value: Icon{Body: "<path/>"}},
		},
	})
	assert.Equal(t, [][]string{{"a", "c"}, {"b", "e"}}, s.Duplicates())

	assert.Empty(t, New(aliasChain(2)).Duplicates())
}
