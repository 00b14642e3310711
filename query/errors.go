package query

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadgen/core"
)

func queryDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.LeadgenErrorInternal)
}

func leadNotFoundError(externalLeadID string) error {
	return goerrors.New(
		fmt.Sprintf("query: lead %s not found", externalLeadID),
		goerrors.CategoryNotFound,
	).
		WithCode(http.StatusNotFound).
		WithTextCode(core.LeadgenErrorNotFound)
}
