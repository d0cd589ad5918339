package dirpicker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/odvcencio/chooser/pkg/selector"
)

var homeListing = Listing{
	CurrentPath: "/home/me",
	ParentPath:  "/home",
	Directories: []Directory{{Name: "src", Path: "/home/me/src"}},
}

func setupPicker(t *testing.T) (*MockLister, *Picker, *[]string, *int) {
	ctrl := gomock.NewController(t)
	lister := NewMockLister(ctrl)
	var selected []string
	closes := 0
	p := NewPicker(lister, func(s string) { selected = append(selected, s) }, func() { closes++ })
	return lister, p, &selected, &closes
}

func TestPickerOpenDefaultsHome(t *testing.T) {
	lister, p, _, _ := setupPicker(t)
	lister.EXPECT().Browse(gomock.Any(), HomePath).Return(homeListing, nil)

	require.NoError(t, p.Open(context.Background(), ""))
	assert.True(t, p.IsOpen())
	assert.False(t, p.Loading())
	assert.Equal(t, []Row{
		{Label: ParentLabel, Path: "/home", Parent: true},
		{Label: "src", Path: "/home/me/src"},
	}, p.Rows())
}

func TestPickerNavigateParentSelect(t *testing.T) {
	lister, p, selected, closes := setupPicker(t)
	gomock.InOrder(
		lister.EXPECT().Browse(gomock.Any(), "/home/me").Return(homeListing, nil),
		lister.EXPECT().Browse(gomock.Any(), "/home").Return(Listing{CurrentPath: "/home", ParentPath: "/"}, nil),
	)

	require.NoError(t, p.Open(context.Background(), "/home/me"))
	require.NoError(t, p.Parent(context.Background()))
	assert.True(t, p.Empty())
	assert.Equal(t, "/home", p.CurrentPath())

	assert.True(t, p.Select())
	assert.Equal(t, []string{"/home"}, *selected)
	assert.Equal(t, 1, *closes)
	assert.False(t, p.IsOpen())
	assert.False(t, p.Select(), "closed picker cannot select")
}

func TestPickerErrorAndRetry(t *testing.T) {
	lister, p, _, _ := setupPicker(t)
	boom := errors.New("permission denied")
	gomock.InOrder(
		lister.EXPECT().Browse(gomock.Any(), "/home/me").Return(homeListing, nil),
		lister.EXPECT().Browse(gomock.Any(), "/root").Return(Listing{}, boom),
		lister.EXPECT().Browse(gomock.Any(), "/home/me").Return(homeListing, nil),
	)

	require.NoError(t, p.Open(context.Background(), "/home/me"))
	assert.ErrorIs(t, p.Navigate(context.Background(), "/root"), boom)
	assert.ErrorIs(t, p.Err(), boom)
	assert.False(t, p.Empty())
	assert.Equal(t, "/home/me", p.RetryPath())

	require.NoError(t, p.Retry(context.Background()))
	assert.NoError(t, p.Err())
}

func TestPickerSelectBeforeLoad(t *testing.T) {
	lister, p, selected, _ := setupPicker(t)
	lister.EXPECT().Browse(gomock.Any(), HomePath).Return(Listing{}, errors.New("no home"))

	assert.Error(t, p.Open(context.Background(), ""))
	assert.Equal(t, HomePath, p.RetryPath())
	assert.False(t, p.Select())
	assert.Empty(t, *selected)
}

func TestPickerDropsStaleResults(t *testing.T) {
	_, p, _, closes := setupPicker(t)
	first := p.Begin("/a")
	second := p.Begin("/b")

	assert.False(t, p.Finish(first, Listing{CurrentPath: "/a"}, nil))
	assert.True(t, p.Loading())
	assert.True(t, p.Finish(second, Listing{CurrentPath: "/b"}, nil))
	assert.Equal(t, "/b", p.CurrentPath())

	p.open = true
	late := p.Begin("/c")
	p.Close()
	assert.Equal(t, 1, *closes)
	assert.False(t, p.Finish(late, Listing{CurrentPath: "/c"}, nil))
	p.Close()
	assert.Equal(t, 1, *closes, "closing twice notifies once")
}

func TestEnhance(t *testing.T) {
	browsed := 0
	var got string
	cfg := selector.Config[string]{
		Options:  RecentOptions([]string{"/home/me/projects/chooser", "/srv/data"}, "/home/me"),
		Open:     true,
		OnChange: func(v string) { got = v },
	}
	Enhance(&cfg, func() { browsed++ })
	c := selector.New(cfg)

	c.SetQuery("projects")
	vis := c.Visible()
	require.Len(t, vis, 2)
	assert.Equal(t, selector.EntryBrowse, vis[0].Kind, "plain words are not custom paths")
	assert.Equal(t, "chooser", vis[1].Label)

	c.SetQuery("/tmp/new")
	vis = c.Visible()
	require.NotEmpty(t, vis)
	assert.Equal(t, "📁 Use directory: /tmp/new", vis[0].Label)
	c.HandleKey(selector.KeyDown)
	c.HandleKey(selector.KeyEnter)
	assert.Equal(t, "/tmp/new", got)

	c.Open()
	c.SetQuery("")
	c.Commit(0)
	assert.Equal(t, 1, browsed)
}

func TestRecentOptions(t *testing.T) {
	opts := RecentOptions([]string{"/home/me", " ", "/home/me/src", "/home/me", "/opt/x"}, "/home/me")
	require.Len(t, opts, 3)
	assert.Equal(t, selector.Option[string]{Value: "/home/me", Label: "me", Description: "~"}, opts[0])
	assert.Equal(t, "~/src", opts[1].Description)
	assert.Equal(t, "/opt/x", opts[2].Description)
}
