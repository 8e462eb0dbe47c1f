// Package timezone keeps all booking and payment timestamps in the single
// application timezone configured for the deployment, so date-based values
// like booking numbers and payment dates are stable regardless of the host.
package timezone
