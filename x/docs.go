/*
Package x contains some standard extensions

Extensions implement common functionality (Handler, Decorator,
etc.) and can be combined together to construct an application

All sub-packages are various extensions, useful to build
applications, but not part of the core. The core lives in
the root of the repository and contains all interfaces and
primitives every extension relies on.
*/
package x
