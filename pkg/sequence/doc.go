// Package sequence evaluates a serial string pattern list into its next
// value. Fixed text is copied, dates are formatted from the clock and
// autoincrement counters are advanced in a CounterStore, restarting from
// their start value once the reset cycle has fired since the last issue.
package sequence
