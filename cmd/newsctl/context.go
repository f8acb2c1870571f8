package main

import (
	"context"
	"sync"
)

type commandContext struct {
	build func(ctx context.Context) (*app, error)

	appOnce sync.Once
	app     *app
	appErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{build: newApp}
}

// ensureApp wires the application on first use. Commands that never touch
// storage or providers do not pay for it.
func (c *commandContext) ensureApp(ctx context.Context) (*app, error) {
	c.appOnce.Do(func() {
		c.app, c.appErr = c.build(ctx)
	})
	return c.app, c.appErr
}

func (c *commandContext) close() {
	if c.app != nil {
		c.app.Close()
	}
}
