//go:build searchdebug

package pool

// built with -tags searchdebug: broken capability implementations panic
const debugChecks = true
