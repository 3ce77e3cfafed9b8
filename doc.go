// Package traycontrols keeps track of system tray menu items and the state of
// their checkable groups. Tray toolkits usually report menu interactions as a
// bare identifier, without the item it belongs to or the group the item is a
// member of. [Manager] resolves such identifiers back to the registered item
// and keeps radio groups consistent.
//
// # Usage
//
// A tray menu is described with [MenuControl] values:
//   - [MenuItem] is a plain clickable entry.
//   - [IconMenuItem] is a clickable entry decorated with an icon.
//   - [CheckMenu] is a checkable entry. Its [CheckMenuKind] is one of
//     [CheckBox], [Radio] or [Separate].
//
// Controls wrap handles provided by the toolkit ([Handle], [CheckHandle],
// [IconHandle]). Package dbusmenu provides handles for the
// com.canonical.dbusmenu protocol, package lantern provides handles for
// github.com/getlantern/systray.
//
// Whenever the toolkit reports a click, pass its identifier to
// [Manager.Update]. If the clicked item is a radio, every other radio of the
// same group is unchecked before Update returns.
//
// The group type G is chosen by the application. Any comparable type works;
// an enumeration of string constants is the usual choice.
package traycontrols
