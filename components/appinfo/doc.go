// Package appinfo exposes the client metadata actions: the app version and
// language, the temporary plugin list and the pinned shortcut list.
//
// getInfo and getLang are public; getPlugins and getPinned require a
// logged-in user. The language resolves to the user's app language when it
// is enabled, else the first enabled language, else the configured default.
package appinfo
