// Package schedule runs retention sweeps on a cron schedule.
//
// The scheduler owns a single cron timer constructed from the cleanup
// configuration at process start, with an explicit Stop for clean shutdown.
// There is no ambient global timer state.
//
// Cron expressions use the standard five-field syntax and are evaluated in
// the configured IANA timezone; the timezone affects only when the sweep
// fires, never the retention date math, which is wall-clock deltas against
// each case's last update.
//
// The sentinel expression "disabled" (or an empty string) suppresses
// scheduling, as does turning off the enabled flag. Manual triggers are
// unaffected either way. An invalid expression is reported at registration
// time; the caller is expected to log it and continue without automatic
// sweeps rather than treat it as fatal.
package schedule
