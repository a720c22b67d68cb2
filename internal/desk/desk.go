// internal/desk/desk.go

// Package desk defines the collaborator surfaces the theme controller needs
// from its host environment. In the browser these map onto the live DOM, the
// session object, and the app-switcher global; here they are explicit
// injected interfaces so the pipeline never reaches for ambient state.
package desk

import "context"

// Selectors for the DOM contract the console exposes. Elements are optional;
// a Document reports absence and the controller treats it as a no-op.
const (
	SelectorLoginBox  = ".for-login"
	SelectorSidebar   = ".layout-side-section"
	SelectorSearchBar = ".search-bar"
)

// ClassSidebarExpanded is toggled on the sidebar container when the theme
// requests an expanded sidebar.
const ClassSidebarExpanded = "expanded-sidebar"

// Document is the style/DOM surface the controller mutates. Implementations
// must tolerate selectors for elements that do not exist.
type Document interface {
	// SetStyleProperty sets a CSS custom property on the document root.
	SetStyleProperty(name, value string)
	// ClearStyleProperty removes a previously set custom property.
	ClearStyleProperty(name string)
	// AddClass adds class to the element at selector, if present.
	AddClass(selector, class string)
	// RemoveClass removes class from the element at selector, if present.
	RemoveClass(selector, class string)
	// SetInlineDisplay sets the inline display value on the element at
	// selector. An empty value resets to the stylesheet default. Returns
	// false when the element is absent.
	SetInlineDisplay(selector, value string) bool
	// HasElement reports whether an element exists at selector.
	HasElement(selector string) bool
}

// AppSwitcher is the host capability that changes the current app. It may be
// absent entirely; when present, failures are reported but never fatal.
type AppSwitcher interface {
	SetCurrentApp(ctx context.Context, appID string) error
}

// Session exposes the current user's roles for the search visibility rule.
type Session interface {
	Roles() []string
}

// LayoutNotifier delivers "layout changed" notifications, decoupling the
// re-check policy from whatever mechanism observes the console re-rendering.
type LayoutNotifier interface {
	// OnLayoutChange registers fn and returns an unsubscribe function.
	OnLayoutChange(fn func()) (unsubscribe func())
}
