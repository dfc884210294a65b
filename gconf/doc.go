/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object under its own package name.
The configuration is loaded from the genesis file once and read back from the
database by handlers on every call.
*/
package gconf
