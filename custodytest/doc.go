/*
Package custodytest provides mocks and helpers for tests of packages
building on top of the custody engine.
*/
package custodytest
