package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/clients"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// translateFetch turns the outcome of a logo fetch from host into a domain
// error, or nil for a 2xx response. location is reported on a 404.
func translateFetch(resp *http.Response, err error, host, location string) error {
	if err != nil {
		return translateClientError(err, host)
	}

	if resp == nil {
		return domain.NewUnavailableError(host, "no response received")
	}

	if resp.StatusCode/100 == 2 {
		return nil
	}

	return translateStatus(resp.StatusCode, host, location)
}

func translateClientError(err error, host string) error {
	var status *clients.StatusError

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(host, "logo host is failing, fetches paused")
	case errors.As(err, &status) && status.Code == http.StatusTooManyRequests:
		return domain.NewUnavailableError(host, "rate limited while fetching logo")
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(host, fmt.Sprintf("logo fetch kept failing: %v", err))
	default:
		return domain.NewUnavailableError(host, fmt.Sprintf("fetching logo: %v", err))
	}
}

func translateStatus(code int, host, location string) error {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return domain.NewNotFoundError("logo", location)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.NewUnavailableError(host, "logo host denied access")
	case code == http.StatusTooManyRequests:
		return domain.NewUnavailableError(host, "rate limited while fetching logo")
	case code >= http.StatusInternalServerError:
		return domain.NewUnavailableError(host, fmt.Sprintf("logo host failed with status %d", code))
	default:
		return domain.NewValidationErrorWithValue("logo.location",
			fmt.Sprintf("logo host rejected the request with status %d", code), location)
	}
}
