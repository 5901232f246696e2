// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface; the Manager registers
// features and mounts the enabled ones on the Fiber app.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
//   - Register adds a feature (a repeated name replaces the earlier one)
//   - LoadAll mounts enabled features in registration order
package loader
