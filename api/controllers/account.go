package controllers

import (
	"net/http"

	"github.com/marisolvega/cakery-backend/api/responses"
	"github.com/marisolvega/cakery-backend/internal/identity"
	"github.com/marisolvega/cakery-backend/internal/profiles"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/logger"
)

type accountResponse struct {
	Identity *identity.IdentityDTO `json:"identity"`
	Profile  *profiles.ProfileDTO  `json:"profile,omitempty"`
}

// AccountMe returns the caller's identity and profile in one payload. A user
// without a profile row still gets their identity back.
func AccountMe(identities identity.Service, profs profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ident, err := identities.GetByID(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := profs.GetByUserID(r.Context(), actor.ID)
		if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, accountResponse{Identity: ident, Profile: profile})
	}
}
