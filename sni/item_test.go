package sni

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	names  []string
	values [][]any
}

func (r *recorder) Emit(path dbus.ObjectPath, name string, values ...any) error {
	r.names = append(r.names, name)
	r.values = append(r.values, values)
	return nil
}

func TestItem_Properties(t *testing.T) {
	item := NewItem("traydemo",
		WithCategory(ItemCategoryHardware),
		WithMenu("/MenuBar", true),
	)

	props := item.properties()

	assert.Equal(t, "traydemo", props["Id"].Value)
	assert.Equal(t, "traydemo", props["Title"].Value)
	assert.Equal(t, "Hardware", props["Category"].Value)
	assert.Equal(t, "Active", props["Status"].Value)
	assert.Equal(t, dbus.ObjectPath("/MenuBar"), props["Menu"].Value)
	assert.Equal(t, true, props["ItemIsMenu"].Value)
	assert.Equal(t, []pixmap{}, props["IconPixmap"].Value)
}

func TestItem_Setters(t *testing.T) {
	rec := &recorder{}
	item := NewItem("traydemo")
	item.conn = rec

	item.SetTitle("Tray Demo")
	item.SetStatus(ItemStatusNeedsAttention)
	item.SetTooltip("Hello")
	item.SetIcon(NewSolidIcon(1, 1, color.White))

	assert.Equal(t, []string{
		StatusNotifierItemInterface + ".NewTitle",
		StatusNotifierItemInterface + ".NewStatus",
		StatusNotifierItemInterface + ".NewToolTip",
		StatusNotifierItemInterface + ".NewIcon",
	}, rec.names)
	assert.Equal(t, []any{"NeedsAttention"}, rec.values[1])

	props := item.properties()
	assert.Equal(t, "Tray Demo", props["Title"].Value)
	assert.Equal(t, "Hello", props["ToolTip"].Value.(tooltip).Title)
	assert.Len(t, props["IconPixmap"].Value, 1)
}

func TestItem_Callbacks(t *testing.T) {
	item := NewItem("traydemo")
	s := &server{item: item}

	// Default callbacks do nothing.
	assert.Nil(t, s.Activate(0, 0))

	var activated, scrolled []int32
	item.OnActivate(func(x, y int32) { activated = append(activated, x, y) })
	item.OnScroll(func(delta int32, orientation string) {
		assert.Equal(t, "vertical", orientation)
		scrolled = append(scrolled, delta)
	})

	assert.Nil(t, s.Activate(10, 20))
	assert.Nil(t, s.Scroll(-1, "vertical"))
	assert.Nil(t, s.SecondaryActivate(0, 0))
	assert.Nil(t, s.ContextMenu(0, 0))

	assert.Equal(t, []int32{10, 20}, activated)
	assert.Equal(t, []int32{-1}, scrolled)
}

func TestItem_Closed(t *testing.T) {
	item := NewItem("traydemo")

	require.NoError(t, item.Close())
	assert.ErrorIs(t, item.Listen(nil), ErrClosed)
}

func TestNewIconFromRGBA(t *testing.T) {
	icon, err := NewIconFromRGBA([]byte{0x11, 0x22, 0x33, 0x44}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x44, 0x11, 0x22, 0x33}, icon.Bytes)

	_, err = NewIconFromRGBA([]byte{0, 0, 0}, 1, 1)
	assert.Error(t, err)

	_, err = NewIconFromRGBA(nil, 0, 1)
	assert.Error(t, err)
}

func TestNewIconFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{B: 0xff, A: 0x80})

	icon := NewIconFromImage(img)

	assert.Equal(t, int32(2), icon.Width)
	assert.Equal(t, int32(1), icon.Height)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0, 0x80, 0, 0, 0xff}, icon.Bytes)
}

func TestNewSolidIcon(t *testing.T) {
	icon := NewSolidIcon(2, 2, color.NRGBA{G: 0xff, A: 0xff})

	assert.Len(t, icon.Bytes, 16)
	for i := 0; i < len(icon.Bytes); i += 4 {
		assert.Equal(t, []byte{0xff, 0, 0xff, 0}, icon.Bytes[i:i+4])
	}
}

func TestIsNewOwner(t *testing.T) {
	for _, tc := range []struct {
		name   string
		signal *dbus.Signal
		want   bool
	}{
		{
			name: "new owner",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: []any{StatusNotifierWatcherInterface, "", ":1.42"},
			},
			want: true,
		},
		{
			name: "owner lost",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: []any{StatusNotifierWatcherInterface, ":1.42", ""},
			},
		},
		{
			name: "other name",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: []any{"org.example.Other", "", ":1.42"},
			},
		},
		{
			name: "other signal",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.NameAcquired",
				Body: []any{StatusNotifierWatcherInterface},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isNewOwner(tc.signal, StatusNotifierWatcherInterface))
		})
	}
}

func TestIsWatcherMissing(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "service unknown",
			err:  fmt.Errorf("failed to register item: %w", dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}),
			want: true,
		},
		{
			name: "name has no owner",
			err:  &dbus.Error{Name: "org.freedesktop.DBus.Error.NameHasNoOwner"},
			want: true,
		},
		{
			name: "access denied",
			err:  dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"},
		},
		{
			name: "other error",
			err:  errors.New("connection closed"),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isWatcherMissing(tc.err))
		})
	}
}

// fakeWatcher records items registered in it.
type fakeWatcher struct {
	registered chan string
}

func (w *fakeWatcher) RegisterStatusNotifierItem(service string) *dbus.Error {
	w.registered <- service
	return nil
}

func hasOwner(t *testing.T, conn *dbus.Conn, name string) bool {
	t.Helper()

	var owned bool
	require.NoError(t, conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&owned))

	return owned
}

func TestItem_ListenWithoutWatcher(t *testing.T) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		t.Skipf("session bus is not available: %v", err)
	}
	defer conn.Close()

	item := NewItem("traydemo")
	item.service = fmt.Sprintf("org.kde.StatusNotifierWatcher.Test%d", time.Now().UnixNano())

	require.NoError(t, item.Listen(conn))

	name := item.Name()
	require.NotEmpty(t, name)
	assert.True(t, hasOwner(t, conn, name))

	// The item is registered once a watcher appears.
	other, err := dbus.ConnectSessionBus()
	require.NoError(t, err)
	defer other.Close()

	fake := &fakeWatcher{registered: make(chan string, 1)}
	require.NoError(t, other.Export(fake, StatusNotifierWatcherPath, StatusNotifierWatcherInterface))

	reply, err := other.RequestName(item.service, dbus.NameFlagDoNotQueue)
	require.NoError(t, err)
	require.Equal(t, dbus.RequestNameReplyPrimaryOwner, reply)

	select {
	case registered := <-fake.registered:
		assert.Equal(t, name, registered)
	case <-time.After(5 * time.Second):
		t.Fatal("item was not registered in the new watcher")
	}

	require.NoError(t, item.Close())
	assert.False(t, hasOwner(t, conn, name))
}
