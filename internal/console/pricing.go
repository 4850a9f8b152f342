package console

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printdesk/internal/drafts"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/session"
)

// Where the config of a pricing view came from.
const (
	sourceDraft    = "draft"
	sourceSaved    = "saved"
	sourceDefaults = "defaults"
)

const (
	listBaseConfigurations   = "base-configurations"
	listOptions              = "options"
	listCustomSpecifications = "custom-specifications"
)

type pricingView struct {
	ServiceID string         `json:"serviceId"`
	BranchID  string         `json:"branchId,omitempty"`
	Source    string         `json:"source"`
	Config    pricing.Config `json:"config"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// loadPricing returns the config a manager is editing: their draft if one
// exists, else the service's saved config, else its defaults.
func (s *Server) loadPricing(ctx context.Context, sess *session.Session, serviceID string) (pricingView, error) {
	d, err := s.drafts.Get(ctx, sess.User.ID, serviceID)
	if err == nil {
		return draftView(d), nil
	}
	if !errors.Is(err, drafts.ErrNotFound) {
		return pricingView{}, err
	}

	svc, err := sess.Client.GetAgentService(ctx, serviceID)
	if err != nil {
		return pricingView{}, err
	}
	if svc.PricingConfig != nil {
		return pricingView{ServiceID: serviceID, Source: sourceSaved, Config: svc.PricingConfig.Clone()}, nil
	}
	return pricingView{ServiceID: serviceID, Source: sourceDefaults, Config: pricing.DefaultConfig(svc)}, nil
}

func draftView(d drafts.Draft) pricingView {
	return pricingView{
		ServiceID: d.AgentServiceID,
		BranchID:  d.BranchID,
		Source:    sourceDraft,
		Config:    d.Config,
		UpdatedAt: optionalTime(d.UpdatedAt),
	}
}

// handlePricingDrafts lists the signed-in manager's unsaved drafts, most
// recently edited first.
func (s *Server) handlePricingDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := s.drafts.ListByUser(r.Context(), currentSession(r).User.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	views := make([]pricingView, 0, len(list))
	for _, d := range list {
		views = append(views, draftView(d))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handlePricingGet(w http.ResponseWriter, r *http.Request) {
	view, err := s.loadPricing(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// editPricing applies edit to the current config and stores the result as
// the user's draft. Nothing reaches the backend until save.
func (s *Server) editPricing(w http.ResponseWriter, r *http.Request, status int, edit func(*pricing.Editor) error) {
	sess := currentSession(r)
	serviceID := chi.URLParam(r, "id")

	view, err := s.loadPricing(r.Context(), sess, serviceID)
	if err != nil {
		fail(w, r, err)
		return
	}
	ed := pricing.NewEditor(view.Config)
	if err := edit(ed); err != nil {
		fail(w, r, err)
		return
	}

	d := drafts.Draft{
		UserID:         sess.User.ID,
		AgentServiceID: serviceID,
		BranchID:       sess.Branch.Current(),
		Config:         ed.Config(),
	}
	if err := s.drafts.Put(r.Context(), d); err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, status, draftView(d))
}

func (s *Server) handlePricingAdd(w http.ResponseWriter, r *http.Request) {
	s.editPricing(w, r, http.StatusCreated, func(ed *pricing.Editor) error {
		switch chi.URLParam(r, "list") {
		case listBaseConfigurations:
			var bc pricing.BaseConfiguration
			if err := decodeJSON(r, &bc); err != nil {
				return err
			}
			ed.AddBaseConfiguration(bc)
		case listOptions:
			var opt pricing.PricingOption
			if err := decodeJSON(r, &opt); err != nil {
				return err
			}
			ed.AddOption(opt)
		case listCustomSpecifications:
			var spec pricing.CustomSpecification
			if err := decodeJSON(r, &spec); err != nil {
				return err
			}
			ed.AddCustomSpecification(spec)
		default:
			return errUnknownList
		}
		return nil
	})
}

func (s *Server) handlePricingUpdate(w http.ResponseWriter, r *http.Request) {
	s.editPricing(w, r, http.StatusOK, func(ed *pricing.Editor) error {
		index, err := indexParam(r)
		if err != nil {
			return err
		}

		var ok bool
		switch chi.URLParam(r, "list") {
		case listBaseConfigurations:
			var patch pricing.BaseConfigurationPatch
			if err := decodeJSON(r, &patch); err != nil {
				return err
			}
			ok = ed.UpdateBaseConfiguration(index, patch)
		case listOptions:
			var patch pricing.OptionPatch
			if err := decodeJSON(r, &patch); err != nil {
				return err
			}
			ok = ed.UpdateOption(index, patch)
		case listCustomSpecifications:
			var patch pricing.CustomSpecificationPatch
			if err := decodeJSON(r, &patch); err != nil {
				return err
			}
			ok = ed.UpdateCustomSpecification(index, patch)
		default:
			return errUnknownList
		}
		if !ok {
			return errIndexOutOfRange
		}
		return nil
	})
}

func (s *Server) handlePricingRemove(w http.ResponseWriter, r *http.Request) {
	s.editPricing(w, r, http.StatusOK, func(ed *pricing.Editor) error {
		index, err := indexParam(r)
		if err != nil {
			return err
		}

		var ok bool
		switch chi.URLParam(r, "list") {
		case listBaseConfigurations:
			ok = ed.RemoveBaseConfiguration(index)
		case listOptions:
			ok = ed.RemoveOption(index)
		case listCustomSpecifications:
			ok = ed.RemoveCustomSpecification(index)
		default:
			return errUnknownList
		}
		if !ok {
			return errIndexOutOfRange
		}
		return nil
	})
}

// handlePricingSave validates the current config, replaces the service's
// config on the backend and drops the draft.
func (s *Server) handlePricingSave(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	serviceID := chi.URLParam(r, "id")

	view, err := s.loadPricing(r.Context(), sess, serviceID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := pricing.Validate(view.Config); err != nil {
		fail(w, r, err)
		return
	}

	svc, err := sess.Client.UpdatePricingConfig(r.Context(), serviceID, view.Config)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.drafts.Delete(r.Context(), sess.User.ID, serviceID); err != nil {
		fail(w, r, err)
		return
	}
	s.invalidate(kindServices)
	respondJSON(w, http.StatusOK, svc)
}

func (s *Server) handlePricingDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Delete(r.Context(), currentSession(r).User.ID, chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePricingQuote previews a selection against the config being edited.
func (s *Server) handlePricingQuote(w http.ResponseWriter, r *http.Request) {
	var sel pricing.Selection
	if err := decodeJSON(r, &sel); err != nil {
		fail(w, r, err)
		return
	}

	view, err := s.loadPricing(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := pricing.Quote(view.Config, sel)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid index %q", raw)
	}
	return i, nil
}
