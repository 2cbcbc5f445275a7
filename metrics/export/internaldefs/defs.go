package internaldefs

import (
	credstore "github.com/incidentmart/credstore"
)

// OutcomeLabel is the label that splits a family into its series.
const OutcomeLabel = "outcome"

// Series is one counter of a family. An empty Outcome means the family has
// a single unlabeled series.
type Series struct {
	Outcome string
	ID      credstore.MetricID
}

// Family groups the counters one credstore operation produces.
type Family struct {
	Name   string
	Help   string
	Series []Series
}

// Families lists every exported counter family in render order.
var Families = []Family{
	{
		Name: "credstore_register_total",
		Help: "Registration attempts by outcome: created, rejected by validation, or email already taken.",
		Series: []Series{
			{Outcome: "success", ID: credstore.MetricRegisterSuccess},
			{Outcome: "invalid", ID: credstore.MetricRegisterFailure},
			{Outcome: "duplicate", ID: credstore.MetricRegisterDuplicate},
		},
	},
	{
		Name: "credstore_email_verification_total",
		Help: "Verification token redemptions by outcome.",
		Series: []Series{
			{Outcome: "success", ID: credstore.MetricEmailVerificationSuccess},
			{Outcome: "failure", ID: credstore.MetricEmailVerificationFailure},
		},
	},
	{
		Name: "credstore_authenticate_total",
		Help: "Credential checks by outcome, before any lockout gate.",
		Series: []Series{
			{Outcome: "success", ID: credstore.MetricAuthenticateSuccess},
			{Outcome: "failure", ID: credstore.MetricAuthenticateFailure},
		},
	},
	{
		Name: "credstore_sign_in_total",
		Help: "Lockout-gated sign-ins by outcome; locked means rejected without checking credentials.",
		Series: []Series{
			{Outcome: "success", ID: credstore.MetricSignInSuccess},
			{Outcome: "failure", ID: credstore.MetricSignInFailure},
			{Outcome: "locked", ID: credstore.MetricSignInLocked},
		},
	},
	{
		Name:   "credstore_lockout_triggered_total",
		Help:   "Emails locked out after reaching the failed attempt limit.",
		Series: []Series{{ID: credstore.MetricLockoutTriggered}},
	},
	{
		Name:   "credstore_remember_set_total",
		Help:   "Remember-me identities saved on sign-in.",
		Series: []Series{{ID: credstore.MetricRememberSet}},
	},
	{
		Name:   "credstore_password_reset_request_total",
		Help:   "Password reset requests, for known and unknown emails alike.",
		Series: []Series{{ID: credstore.MetricPasswordResetRequest}},
	},
	{
		Name: "credstore_password_reset_confirm_total",
		Help: "Password reset completions by outcome.",
		Series: []Series{
			{Outcome: "success", ID: credstore.MetricPasswordResetConfirmSuccess},
			{Outcome: "failure", ID: credstore.MetricPasswordResetConfirmFailure},
		},
	},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const (
	AuditDroppedName = "credstore_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher queue was full."
)

// Latency is the Authenticate latency histogram, including the configured delay.
var Latency = struct {
	ID   credstore.MetricID
	Name string
	Help string
}{
	ID:   credstore.MetricAuthenticateLatency,
	Name: "credstore_authenticate_latency_seconds",
	Help: "Authenticate latency including the anti-brute-force delay.",
}

// LatencyBounds are the upper bounds of the Engine's fixed buckets, in seconds.
var LatencyBounds = [8]string{"0.005", "0.01", "0.025", "0.05", "0.1", "0.25", "0.5", "+Inf"}

// Cumulative turns the Engine's per-bucket counts into running totals. Short
// or missing input is zero-filled.
func Cumulative(raw []uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := range out {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
