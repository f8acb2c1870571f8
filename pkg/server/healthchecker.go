package server

import "context"

// HealthChecker is one dependency probed by the health endpoint.
type HealthChecker interface {
	Name() string
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct{}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Name() string {
	return "app"
}

func (hc *OkHealthChecker) Healthy(context.Context) bool {
	return true
}

// CheckFunc adapts a probe function into a named HealthChecker.
type CheckFunc struct {
	name  string
	check func(ctx context.Context) error
}

func NewCheckFunc(name string, check func(ctx context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, check: check}
}

func (hc *CheckFunc) Name() string {
	return hc.name
}

func (hc *CheckFunc) Healthy(ctx context.Context) bool {
	return hc.check(ctx) == nil
}
