/*
Package config loads canvas settings from YAML, JSON or TOML files.

Values wraps a map[string]any and provides typed accessors that return a
default when a key is missing or has the wrong type. Dotted keys walk
nested tables:

	v, err := config.FromFile("flowcanvas.toml")
	delay := v.Duration("autosave.delay", 30*time.Second)

Durations accept Go duration strings ("45s") or a number of seconds.

Settings is the typed view used by the command-line tool:

	s, err := config.LoadFile(path) // Default() overlaid with the file
*/
package config
