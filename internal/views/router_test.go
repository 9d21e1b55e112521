package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"":                 RoutePositions,
		"/":                RoutePositions,
		"/positions":       RoutePositions,
		"positions":        RoutePositions,
		"/order-execution": RouteOrderExecution,
		"order-execution/": RouteOrderExecution,
		"/nope":            RoutePositions,
		"/positions/extra": RoutePositions,
	}
	for in, want := range cases {
		assert.Equal(t, want, Resolve(in), in)
	}
}

func TestRouter_Navigate(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, RoutePositions, r.Current())

	var got []string
	r.OnNavigate(func(route string) { got = append(got, route) })

	r.Navigate("/order-execution")
	r.Navigate("/unknown")

	assert.Equal(t, RoutePositions, r.Current())
	assert.Equal(t, []string{RouteOrderExecution, RoutePositions}, got)
	assert.Equal(t, got, r.History())
}
