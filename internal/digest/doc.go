// Package digest builds periodic outreach summaries.
//
// A [Scheduler] runs on a standard five-field cron spec (for example
// "0 9 * * 1-5" for weekday mornings). On every tick it snapshots the school
// store into a [Summary] and hands it to each registered [Reporter].
//
// Users of the outreach library enable the digest with
// [outreach.WithDigestSchedule] and should not need this package directly.
package digest
