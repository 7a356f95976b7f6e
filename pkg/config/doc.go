// Package config loads the project configuration of an add-on project.
//
// Values are layered with koanf, later layers overriding earlier ones:
// embedded defaults, computed defaults, the project file
// (compiler.config.json, .toml or .yaml), a .env file in the project
// directory, and finally ADDONC_* environment variables.
package config
