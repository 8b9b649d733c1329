package user

import (
	"errors"
	"net/http"

	contextx "github.com/icaliwag/pasokit/internal/context"
	"github.com/icaliwag/pasokit/internal/pkg/message"
	"github.com/icaliwag/pasokit/internal/pkg/web"
)

type Handler struct {
	svc UserService
}

func NewHandler(svc UserService) *Handler {
	return &Handler{svc: svc}
}

// CurrentUser returns the public fields of the authenticated user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := contextx.UserFromContext(r.Context())
	if err != nil {
		web.Fail(w, http.StatusUnauthorized, err, message.TokenInvalid, nil)
		return
	}

	u, err := h.svc.Find(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.Fail(w, http.StatusNotFound, err, "User not found.", nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, "Something went wrong.", nil)
		return
	}

	data := u.Public()
	web.OK(w, http.StatusOK, nil, &data)
}
