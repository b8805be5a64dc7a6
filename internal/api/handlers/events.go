package handlers

import (
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// GetCustodianEvents godoc
// @Summary Get the audit event trail for a custodian
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param pagination_key query string false "Pagination key to fetch the next page of events"
// @Success 200 {object} PublicResponse[[]services.EventPublic] "Events, newest first, and pagination token"
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Router /v1/custodians/{custodianID}/events [get]
func (h *Handler) GetCustodianEvents(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	paginationKey := request.URL.Query().Get("pagination_key")

	events, newPaginationKey, err := h.services.EventsByCustodian(request.Context(), custodianID, paginationKey)
	if err != nil {
		return nil, err
	}
	return NewResultWithPagination(events, newPaginationKey), nil
}
