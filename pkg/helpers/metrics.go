package helpers

import "expvar"

// Counters published under /debug/vars.
var (
	MetricUsersCreated = expvar.NewInt("users_created")
	MetricLoginsFailed = expvar.NewInt("logins_failed")
	MetricPostsCreated = expvar.NewInt("posts_created")
	MetricVotesAdded   = expvar.NewInt("votes_added")
	MetricVotesRemoved = expvar.NewInt("votes_removed")
	MetricEmailsQueued = expvar.NewInt("emails_queued")
)
