// Package core defines the small capability interfaces the rest of keel is
// built on: filesystem access and external command execution. Production
// implementations talk to the OS; the mocks in this package back the tests.
package core
