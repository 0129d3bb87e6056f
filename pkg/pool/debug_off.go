//go:build !searchdebug

package pool

const debugChecks = false
