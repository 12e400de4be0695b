package linkcheck

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Reason classifies why a probe succeeded or failed.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonHTTPStatus       Reason = "http_status"
	ReasonTimeout          Reason = "timeout"
	ReasonTLSError         Reason = "tls_error"
	ReasonConnectionError  Reason = "connection_error"
	ReasonTooManyRedirects Reason = "too_many_redirects"
	ReasonOther            Reason = "other"
)

// maxDetailLen caps the message carried by a ReasonOther outcome.
const maxDetailLen = 50

// Outcome is the result of a single probe. Exactly one outcome exists per
// unique URL per run; probes are never retried.
type Outcome struct {
	URL        string `json:"url"`
	Reachable  bool   `json:"reachable"`
	Reason     Reason `json:"reason"`
	StatusCode int    `json:"status_code,omitempty"` // final status for OK and HTTP_STATUS
	Detail     string `json:"detail,omitempty"`      // truncated message for OTHER
}

// ClassifyErr maps a transport-level error to a failure reason. Priority
// order, first match wins: timeout, TLS failure, connection-level failure,
// redirect cap, anything else.
func ClassifyErr(err error) (Reason, string) {
	if err == nil {
		return ReasonOther, ""
	}

	if isTimeout(err) {
		return ReasonTimeout, ""
	}
	if isTLSError(err) {
		return ReasonTLSError, ""
	}
	if isConnectionError(err) {
		return ReasonConnectionError, ""
	}
	if isRedirectCap(err) {
		return ReasonTooManyRedirects, ""
	}

	return ReasonOther, truncate(err.Error(), maxDetailLen)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var (
		verifyErr *tls.CertificateVerificationError
		recordErr tls.RecordHeaderError
		authErr   x509.UnknownAuthorityError
		hostErr   x509.HostnameError
		certErr   x509.CertificateInvalidError
	)
	if errors.As(err, &verifyErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authErr) || errors.As(err, &hostErr) || errors.As(err, &certErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}

func isConnectionError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// isRedirectCap detects the net/http client error produced when a redirect
// chain exceeds the client's cap. The stdlib exposes it only as text.
func isRedirectCap(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "stopped after") && strings.Contains(msg, "redirects")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Describe renders an outcome's reason for reports, e.g. "HTTP 404" or
// "Timeout".
func (o Outcome) Describe() string {
	switch o.Reason {
	case ReasonOK:
		return "OK"
	case ReasonHTTPStatus:
		return fmt.Sprintf("HTTP %d", o.StatusCode)
	case ReasonTimeout:
		return "Timeout"
	case ReasonTLSError:
		return "TLS Error"
	case ReasonConnectionError:
		return "Connection Error"
	case ReasonTooManyRedirects:
		return "Too Many Redirects"
	default:
		if o.Detail != "" {
			return "Error: " + o.Detail
		}
		return "Error"
	}
}
