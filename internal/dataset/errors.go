package dataset

import (
	"net/http"

	"fraudrisk/pkg/serrors"
)

// Row-level kinds. Rows failing with these are dropped from the build and
// reported; they never abort it.
var (
	// ErrDomainExtraction means the URL has no registrable domain.
	ErrDomainExtraction = serrors.NewKind("DOMAIN_EXTRACTION")
	// ErrUnknownLabel means the raw label is not in the label lookup.
	ErrUnknownLabel = serrors.NewKind("UNKNOWN_LABEL")
	// ErrMalformedFile means an interchange file could not be parsed.
	ErrMalformedFile = serrors.NewKind("MALFORMED_FILE")
)

func init() { //nolint: gochecknoinits
	serrors.RegisterStatus(ErrDomainExtraction, http.StatusBadRequest)
	serrors.RegisterStatus(ErrUnknownLabel, http.StatusBadRequest)
	serrors.RegisterStatus(ErrMalformedFile, http.StatusBadRequest)
}
