// Package config loads stepper configuration.
//
// Configuration is layered with koanf: defaults, then an optional YAML
// file, then STEPPER_* environment variables.
//
//	stepper:
//	  quantity: 1
//	  min: 1
//	  max: 999
//	  quiet_period: 1s
//	  repeat_interval: 200ms
//	log:
//	  level: info
//	  format: json
//	  file: stepper.log
//	lines:
//	  - name: espresso
//	    quantity: 2
//	  - name: croissant
//	    max: 12
//
// Quantity and bounds are read as strings and parsed with the same
// fallback rules as element attributes, so "abc" becomes the default
// rather than a load error. Inverted bounds are reported by Validate.
//
// Example usage:
//
//	manager := config.NewManager("stepper.yaml")
//	if err := manager.Load(); err != nil {
//		log.Fatal(err)
//	}
//	cfg := manager.Get()
package config
