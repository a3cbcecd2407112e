package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/httputil"
)

type referenceBody struct {
	Name       string  `json:"name"`
	DistrictID *string `json:"district_id"`
}

// ListReferences returns a lookup table ordered by name.
//
//	GET /api/districts | /api/groups | /api/industries
func (h *Handlers) ListReferences(kind domain.ReferenceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refs, err := h.references.List(r.Context(), kind)
		if err != nil {
			respondServiceError(w, err, "failed to list "+string(kind))
			return
		}
		httputil.OK(w, refs)
	}
}

// CreateReference adds a named row to a lookup table.
func (h *Handlers) CreateReference(kind domain.ReferenceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body referenceBody
		if !httputil.Decode(w, r, &body) {
			return
		}
		ref, err := h.references.Create(r.Context(), &domain.Reference{Kind: kind, Name: body.Name, DistrictID: body.DistrictID})
		if err != nil {
			respondServiceError(w, err, "failed to create entry")
			return
		}
		httputil.Created(w, ref)
	}
}

// UpdateReference renames a lookup row.
func (h *Handlers) UpdateReference(kind domain.ReferenceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body referenceBody
		if !httputil.Decode(w, r, &body) {
			return
		}
		ref, err := h.references.Update(r.Context(), &domain.Reference{
			ID:         chi.URLParam(r, "id"),
			Kind:       kind,
			Name:       body.Name,
			DistrictID: body.DistrictID,
		})
		if err != nil {
			respondServiceError(w, err, "failed to update entry")
			return
		}
		httputil.OK(w, ref)
	}
}

// DeleteReference removes a lookup row.
func (h *Handlers) DeleteReference(kind domain.ReferenceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.references.Delete(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, err, "failed to delete entry")
			return
		}
		httputil.NoContent(w)
	}
}

type locationBody struct {
	DistrictID *string `json:"district_id"`
	SubCounty  string  `json:"sub_county"`
	Parish     string  `json:"parish"`
}

// ListLocations returns locations, optionally for one district.
//
//	GET /api/locations?district_id=
func (h *Handlers) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.references.Locations(r.Context(), r.URL.Query().Get("district_id"))
	if err != nil {
		respondServiceError(w, err, "failed to list locations")
		return
	}
	httputil.OK(w, locs)
}

// CreateLocation adds a sub-county/parish pair.
func (h *Handlers) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var body locationBody
	if !httputil.Decode(w, r, &body) {
		return
	}
	loc, err := h.references.CreateLocation(r.Context(), &domain.Location{
		DistrictID: body.DistrictID,
		SubCounty:  body.SubCounty,
		Parish:     body.Parish,
	})
	if err != nil {
		respondServiceError(w, err, "failed to create location")
		return
	}
	httputil.Created(w, loc)
}

// UpdateLocation edits a location.
func (h *Handlers) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var body locationBody
	if !httputil.Decode(w, r, &body) {
		return
	}
	loc, err := h.references.UpdateLocation(r.Context(), &domain.Location{
		ID:         chi.URLParam(r, "id"),
		DistrictID: body.DistrictID,
		SubCounty:  body.SubCounty,
		Parish:     body.Parish,
	})
	if err != nil {
		respondServiceError(w, err, "failed to update location")
		return
	}
	httputil.OK(w, loc)
}

// DeleteLocation removes a location.
func (h *Handlers) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.references.DeleteLocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "failed to delete location")
		return
	}
	httputil.NoContent(w)
}
