package security

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrar_login_failures_total",
			Help: "Number of failed login attempts recorded by the attempt tracker",
		},
	)

	accountLockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrar_account_lockouts_total",
			Help: "Number of times an account crossed the failure threshold and was locked",
		},
	)

	sessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrar_sessions_created_total",
			Help: "Number of sessions minted after successful authentication",
		},
	)

	sessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrar_sessions_expired_total",
			Help: "Number of sessions removed by idle expiry (on read or by the sweep)",
		},
	)

	attemptRecordsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrar_attempt_records_swept_total",
			Help: "Number of stale attempt records reclaimed by the cleanup sweep",
		},
	)
)
