// internal/desk/session.go
package desk

import "context"

// StaticSession is a Session with a fixed role list.
type StaticSession []string

func (s StaticSession) Roles() []string {
	return []string(s)
}

// AppSwitcherFunc adapts a function to the AppSwitcher interface.
type AppSwitcherFunc func(ctx context.Context, appID string) error

func (f AppSwitcherFunc) SetCurrentApp(ctx context.Context, appID string) error {
	return f(ctx, appID)
}
