// Package acl keeps HTTP out of the domain. It turns logo host responses
// into image bytes or domain errors:
//
//   - 404 and 410 become [domain.ErrNotFound]
//   - 401, 403, 429, 5xx, transport failures and an open circuit become
//     [domain.ErrUnavailable], so the document renders without a logo
//   - any other 4xx, a non-image body or an oversized body becomes
//     [domain.ErrValidation]
package acl
