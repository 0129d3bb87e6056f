//go:build !searchdebug

package search

const debugChecks = false
