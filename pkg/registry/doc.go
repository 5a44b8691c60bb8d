// Package registry maps behavior names used in charts to state factories.
package registry
