package server

import "github.com/matst80/slask-catalog/pkg/surface"

func intent(action, dim, value string) surface.Intent {
	return surface.Intent{Action: action, Dimension: dim, Value: value}
}
